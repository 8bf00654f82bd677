package main

import (
	"fmt"

	"github.com/elanurleylek/robosphere-sub000/internal/lib/email"
	"github.com/spf13/cobra"
)

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview <template>",
	Short: "Render an email template with sample data to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl := email.Template(args[0])
		data, ok := email.PreviewData[tmpl]
		if !ok {
			return fmt.Errorf("unknown email template %q", args[0])
		}

		html, err := email.Render(tmpl, data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	},
}
