package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/apperr"
)

func newAnalyzeCmd(s *settings) *cobra.Command {
	var (
		contractType string
		demo         bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a PDF or DOCX contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := s.client()
			out := cmd.OutOrStdout()

			if demo {
				res, err := c.Demo(ctx, args[0])
				if err != nil {
					return userError(err)
				}
				if s.asJSON {
					return writeJSON(out, res)
				}
				printDemo(out, res)
				return nil
			}

			doc, err := c.ExtractText(ctx, args[0])
			if err != nil {
				return userError(err)
			}
			s.logger.Debug("extracted text",
				zap.String("file", doc.Filename),
				zap.Int("pages", doc.Pages),
				zap.Int("chars", doc.SanitizedLength),
			)

			res, err := c.AnalyzeText(ctx, doc.Text, contractType)
			if err != nil {
				return userError(err)
			}
			if s.asJSON {
				return writeJSON(out, res)
			}
			printFull(out, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&contractType, "type", "t", "", `contract type hint, e.g. "lease" or "NDA"`)
	cmd.Flags().BoolVar(&demo, "demo", false, "run the short preview analysis instead")
	return cmd
}

func newTypesCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported contract types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				ContractTypes []string `json:"contractTypes"`
				Default       string   `json:"default"`
			}
			if err := s.client().Get(cmd.Context(), "/api/contract-types", &resp); err != nil {
				return userError(err)
			}
			for _, t := range resp.ContractTypes {
				marker := ""
				if t == resp.Default {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", t, marker)
			}
			return nil
		},
	}
}

func newHealthCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and its model provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := s.client()
			var server map[string]string
			if err := c.Get(cmd.Context(), "/health", &server); err != nil {
				return userError(err)
			}
			var provider struct {
				OK    bool          `json:"ok"`
				Error *apperr.Error `json:"error"`
			}
			if err := c.Get(cmd.Context(), "/api/openai-health", &provider); err != nil {
				return userError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:   %s\n", server["status"])
			if provider.OK {
				fmt.Fprintln(out, "provider: ok")
				return nil
			}
			msg := "unavailable"
			if provider.Error != nil {
				msg = provider.Error.Message
			}
			fmt.Fprintf(out, "provider: %s\n", msg)
			return fmt.Errorf("model provider unavailable")
		},
	}
}

// userError prefers the server's user-facing message over transport detail.
func userError(err error) error {
	if ae := apperr.From(err); ae != nil && ae.Code != apperr.Unknown {
		return ae
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDemo(w io.Writer, r *DemoResult) {
	fmt.Fprintf(w, "%s (%d bytes)\n\n", r.Name, r.Size)
	fmt.Fprintf(w, "Summary:  %s\n", r.Summary)
	fmt.Fprintf(w, "Parties:  %s\n", r.Parties)
	fmt.Fprintf(w, "Duration: %s\n", r.Duration)
	fmt.Fprintln(w, "\nRisks:")
	for _, risk := range r.Risks {
		fmt.Fprintf(w, "  - %s\n", risk)
	}
}

func printFull(w io.Writer, r *AnalyzeResult) {
	fmt.Fprintf(w, "Contract type: %s", r.FinalContractType)
	if r.DetectedContractType != "" && r.DetectedContractType != r.FinalContractType {
		fmt.Fprintf(w, " (detected %s)", r.DetectedContractType)
	}
	fmt.Fprintln(w)

	full := r.Full
	if full == nil {
		return
	}
	if len(full.Highlights) > 0 {
		fmt.Fprintf(w, "Highlights: %s\n", strings.Join(full.Highlights, " | "))
	}
	fmt.Fprintf(w, "\n%s\n", full.ExtendedSummary)

	if len(full.TopRisks) > 0 {
		fmt.Fprintln(w, "\nTop risks:")
		for _, t := range full.TopRisks {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", strings.ToUpper(string(t.Severity)), t.Category, t.Status)
		}
	}

	fmt.Fprintln(w, "\nCoverage:")
	for _, b := range r.Buckets {
		fmt.Fprintf(w, "  %s\n", b.BucketName)
		for _, risk := range b.Risks {
			if !risk.Mentioned {
				fmt.Fprintf(w, "    - %s: not mentioned\n", risk.RiskName)
				continue
			}
			fmt.Fprintf(w, "    + %s: %s\n", risk.RiskName, risk.KeyInfo)
		}
	}

	if full.ProfessionalAdviceNote != "" && full.ProfessionalAdviceNote != analysis.NotSpecified {
		fmt.Fprintf(w, "\n%s\n", full.ProfessionalAdviceNote)
	}
}
