package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/create-user.go <email> <receiver_id> <nombre>\n")
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	receiverID := strings.TrimSpace(os.Args[2])
	nombre := strings.TrimSpace(strings.Join(os.Args[3:], " "))

	fmt.Printf(
		"INSERT INTO usuarios_portal (email, receiver_id, nombre, activo, intentos_fallidos, created_at)\n"+
			"VALUES ('%s', '%s', '%s', TRUE, 0, NOW());\n",
		escape(email), escape(receiverID), escape(nombre),
	)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
