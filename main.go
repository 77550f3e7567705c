package main

import (
	"github.com/mj1618/nirctl/cmd"

	_ "github.com/mj1618/nirctl/internal/platform/windows"
)

func main() {
	cmd.Execute()
}
