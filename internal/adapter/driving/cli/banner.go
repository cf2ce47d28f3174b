package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/genomics-finops-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   ____                            _            _____ _        ___
  / ___| ___ _ __   ___  _ __ ___ (_) ___ ___  |  ___(_)_ __  / _ \ _ __  ___
 | |  _ / _ \ '_ \ / _ \| '_ ' _ \| |/ __/ __| | |_  | | '_ \| | | | '_ \/ __|
 | |_| |  __/ | | | (_) | | | | | | | (__\__ \ |  _| | | | | | |_| | |_) \__ \
  \____|\___|_| |_|\___/|_| |_| |_|_|\___|___/ |_|   |_|_| |_|\___/| .__/|___/
                                                                   |_|
`
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))
	fmt.Println(blue(fmt.Sprintf("Genomics FinOps CLI (v%s)", version.FormatVersion())))
}
