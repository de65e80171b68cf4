// cmd/scaffold_tool/main.go
package main

import (
	"scaffold/internal/app"
	"scaffold/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
