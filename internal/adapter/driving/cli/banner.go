package cli

import (
	"fmt"
	"io"

	"github.com/diillson/aws-vpc-cleaner/pkg/console"
	"github.com/diillson/aws-vpc-cleaner/pkg/version"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(out io.Writer, versionStr string) {
	banner, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("VPC ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Cleaner", pterm.FgLightRed.ToStyle()),
	).Srender()
	if err == nil {
		fmt.Fprintln(out, banner)
	}

	fmt.Fprintln(out, console.BrightCyan(fmt.Sprintf("AWS Default VPC Cleaner (v%s)", version.FormatVersion())))
	fmt.Fprintln(out, console.BoldRed("Default VPCs are deleted permanently. Nothing is removed without an explicit \"yes\"."))
	fmt.Fprintln(out)
}
