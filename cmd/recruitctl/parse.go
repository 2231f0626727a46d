package main

import (
	"encoding/json"
	"os"

	"github.com/mikey/recruitflow-ingest/internal/adapters/mailbox"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseAnalyze bool

// parsedMessage is the printable view of a parsed message
type parsedMessage struct {
	Key            string                       `json:"key"`
	Sender         string                       `json:"sender"`
	Subject        string                       `json:"subject"`
	BodyChars      int                          `json:"body_chars"`
	Attachment     string                       `json:"attachment,omitempty"`
	AttachmentText string                       `json:"attachment_text,omitempty"`
	IsResume       *bool                        `json:"is_resume,omitempty"`
	Candidate      *core.ExtractedCandidateInfo `json:"candidate,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE.eml",
	Short: "Parse a saved email the way the mailbox reader does",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		container, err := di.BuildCLIContainer(cliOpts)
		if err != nil {
			return err
		}

		return container.Invoke(func(logger *zap.Logger, extractor core.DocumentExtractor) error {
			defer logger.Sync()

			msg, err := mailbox.ParseMessage(raw, info.ModTime(), extractor, logger)
			if err != nil {
				return err
			}
			out := parsedMessage{
				Key:            msg.LedgerKey(),
				Sender:         msg.Sender,
				Subject:        msg.Subject,
				BodyChars:      len([]rune(msg.Body)),
				Attachment:     msg.AttachmentFilename,
				AttachmentText: msg.AttachmentText,
			}

			if parseAnalyze {
				if err := container.Invoke(func(analyzer core.CandidateAnalyzer) error {
					return analyze(cmd, analyzer, msg, &out)
				}); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		})
	},
}

// analyze runs classification and, for resumes, extraction on the message
func analyze(cmd *cobra.Command, analyzer core.CandidateAnalyzer, msg *core.Message, out *parsedMessage) error {
	ctx := cmd.Context()

	isResume, err := analyzer.ClassifyIsResume(ctx, msg.Subject, msg.Body, msg.AttachmentText)
	if err != nil {
		return err
	}
	out.IsResume = &isResume
	if !isResume {
		return nil
	}

	candidate, err := analyzer.ExtractCandidate(ctx, msg.Subject, msg.Body, msg.AttachmentText)
	if err != nil {
		return err
	}
	out.Candidate = candidate
	return nil
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseAnalyze, "analyze", "a", false, "also classify the message and extract the candidate with the configured model")
}
