// seed crea las cuentas iniciales de la planta: el SUPER_USER administrativo
// y una cuenta de ejemplo por rol, todas con la contraseña de SEED_PASSWORD.
//
// Uso: SEED_PASSWORD='...' go run ./cmd/seed
// Es idempotente: las cuentas cuyo login ya existe se omiten.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
	"github.com/jhoicas/Mantenimiento-api/pkg/names"
)

var sampleNames = map[entity.Role]string{
	entity.RoleProductionOperator:    "Carlos Ramírez",
	entity.RoleMaintenanceOperator:   "Juan Pérez",
	entity.RoleMaintenanceSupervisor: "María Gómez",
	entity.RoleSuperUser:             "Administrador",
}

func main() {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "defina SEED_PASSWORD")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("generar hash bcrypt")
	}

	users := postgres.NewUserRepository(pool)
	for _, role := range entity.AllRoles {
		displayName := sampleNames[role]
		loginName := names.DeriveLoginName(displayName)

		existing, err := users.GetByLoginName(ctx, loginName)
		if err != nil {
			log.Fatal().Err(err).Str("login", loginName).Msg("consultar cuenta")
		}
		if existing != nil {
			log.Info().Str("login", loginName).Msg("la cuenta ya existe, se omite")
			continue
		}

		now := time.Now().UTC()
		u := &entity.User{
			ID:           uuid.NewString(),
			LoginName:    loginName,
			DisplayName:  displayName,
			PasswordHash: string(hash),
			Role:         role,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Str("login", loginName).Msg("crear cuenta")
		}
		log.Info().Str("login", loginName).Str("rol", string(role)).Msg("cuenta creada")
	}
}
