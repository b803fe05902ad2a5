package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sauerbraten/frontline/internal/auth"
	"github.com/sauerbraten/frontline/internal/definitions/privilege"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: genauth <privilege> <name> <password>")
		os.Exit(1)
		return
	}

	prvlg, name, password := privilege.Parse(os.Args[1]), os.Args[2], os.Args[3]

	if prvlg != privilege.Bridge && prvlg != privilege.Admin {
		fmt.Println("privilege must be 'bridge' or 'admin'")
		os.Exit(2)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
		return
	}

	u := &auth.User{
		Name:         name,
		PasswordHash: hash,
		Privilege:    prvlg,
	}

	fmt.Println("add to server's users.json:")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "\t")
	err = enc.Encode(u)
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
		return
	}
}
