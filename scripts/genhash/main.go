// genhash imprime el hash bcrypt de SEED_PASSWORD, útil para insertar o
// rotar credenciales por SQL sin pasar por la API.
//
// Uso: SEED_PASSWORD='...' go run ./scripts/genhash
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	pw := os.Getenv("SEED_PASSWORD")
	if pw == "" {
		log.Fatal("defina SEED_PASSWORD")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(hash))
}
