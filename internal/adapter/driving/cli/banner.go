package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/hotelviz/flourish-prep/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
         /$$$$$$$$ /$$                               /$$           /$$
        | $$_____/| $$                              |__/          | $$
        | $$      | $$  /$$$$$$  /$$   /$$  /$$$$$$  /$$  /$$$$$$$| $$$$$$$
        | $$$$$   | $$ /$$__  $$| $$  | $$ /$$__  $$| $$ /$$_____/| $$__  $$
        | $$__/   | $$| $$  \ $$| $$  | $$| $$  \__/| $$|  $$$$$$ | $$  \ $$
        | $$      | $$| $$  | $$| $$  | $$| $$      | $$ \____  $$| $$  | $$
        | $$      | $$|  $$$$$$/|  $$$$$$/| $$      | $$ /$$$$$$$/| $$  | $$
        |__/      |__/ \______/  \______/ |__/      |__/|_______/ |__/  |__/
                          /$$$$$$$
                         | $$__  $$ /$$$$$$   /$$$$$$   /$$$$$$
                         | $$$$$$$//$$__  $$ /$$__  $$ /$$__  $$
                         | $$____/| $$  \__/| $$$$$$$$| $$  \ $$
                         | $$     | $$      | $$_____/| $$  | $$
                         | $$     | $$      |  $$$$$$$| $$$$$$$/
                         |__/     |__/       \_______/| $$____/
                                                      | $$
                                                      |__/
        `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Flourish Prep CLI (v%s)", formattedVersion)))
}
