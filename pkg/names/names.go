// Package names deriva nombres de login a partir de nombres de persona.
// "Juan Pérez" → "JPEREZ": inicial del primer nombre + primer apellido,
// sin tildes ni diacríticos, en mayúsculas.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize quita diacríticos y pasa a mayúsculas.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// DeriveLoginName construye un login a partir del nombre mostrado.
// Con un solo token devuelve el token completo normalizado; con varios,
// la inicial del primero más el último token.
func DeriveLoginName(displayName string) string {
	fields := strings.Fields(Normalize(displayName))
	if len(fields) == 0 {
		return ""
	}
	if len(fields) == 1 {
		return fields[0]
	}
	first := []rune(fields[0])
	return string(first[0]) + fields[len(fields)-1]
}
