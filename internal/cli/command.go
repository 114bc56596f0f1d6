package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/injector"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
)

// Builder constructs the translation stack from a loaded config
type Builder func(config *conf.Config, log *logger.Logger) (*injector.Translator, func(), error)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	return createRootCommand(flags, injector.InitializeTranslator)
}

func createRootCommand(flags *Flags, build Builder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "translate",
		Short: "AI document translator",
		Long: `translate runs the translation pipeline from the command line.

Text is split into chunks, translated concurrently by the configured AI
provider and reassembled in order. When the provider is unreachable an
offline dictionary fallback is used and flagged.

Examples:
  translate text --to es "Hello world"
  echo "Good morning" | translate text --to fr
  translate file README.md --to de --html -o README.de.html
  translate languages`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (defaults and TRANSLATOR_* env when empty)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.Provider, "provider", "", "override translation.provider (openai, gemini, http, offline)")

	rootCmd.AddCommand(
		newTextCommand(flags, build),
		newFileCommand(flags, build),
		newLanguagesCommand(),
	)

	return rootCmd
}

func addLanguageFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.From, "from", "f", flags.From, "source language code")
	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "target language code")
	cmd.Flags().StringVar(&flags.Model, "model", "", "model override for this request")
	_ = cmd.MarkFlagRequired("to")
}

func newTextCommand(flags *Flags, build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [text...]",
		Short: "Translate a short text from arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			tr, log, cleanup, err := setup(flags, build)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := tr.UseCase.TranslateText(cmd.Context(), &biz.TranslateRequest{
				Text:   text,
				Source: flags.From,
				Target: flags.To,
				Model:  flags.Model,
			})
			if err != nil {
				return err
			}
			if res.UsedFallback {
				log.Warn("remote translation unavailable, offline fallback used")
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: offline fallback used")
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.TranslatedText)
			return nil
		},
	}
	addLanguageFlags(cmd, flags)
	return cmd
}

func newFileCommand(flags *Flags, build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Translate a document (txt, md, html, json, pdf, docx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			tr, log, cleanup, err := setup(flags, build)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			doc, err := tr.Loaders.Extract(ctx, filepath.Base(path), data)
			if err != nil {
				return err
			}
			log.Debug("document extracted",
				zap.String("file_type", doc.Type.String()),
				zap.Int("length", len(doc.Content)))

			res, err := tr.UseCase.TranslateDocument(ctx, &biz.DocumentRequest{
				Text:     doc.Content,
				Source:   flags.From,
				Target:   flags.To,
				Model:    flags.Model,
				Metadata: map[string]interface{}{"filename": doc.Metadata["filename"]},
			}, newProgressReporter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if res.Cancelled {
				return context.Canceled
			}
			if res.UsedFallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: offline fallback used for chunks %v\n", res.FallbackChunks)
			}

			out := res.TranslatedText
			if flags.HTML {
				if out, err = tr.Loaders.Markdown().RenderHTML(out); err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), flags.Output, out)
		},
	}
	addLanguageFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "write the translation to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.HTML, "html", false, "render the translated markdown as HTML")
	cmd.Flags().BoolVar(&flags.StripMarkdown, "strip-markdown", false, "translate markdown as plain text (overrides document.strip_markdown)")
	return cmd
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := language.Supported()
			sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tNATIVE")
			for _, l := range langs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, l.NativeName)
			}
			return w.Flush()
		},
	}
}

// setup 加载配置、创建 CLI 日志并构建翻译组件
func setup(flags *Flags, build Builder) (*injector.Translator, *logger.Logger, func(), error) {
	config, err := conf.NewLoader(flags.CfgFile).Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.Provider != "" {
		config.Translation.Provider = flags.Provider
	}
	if flags.StripMarkdown {
		config.Document.StripMarkdown = true
	}

	log, err := logger.CLI(flags.Verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tr, cleanup, err := build(config, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, fmt.Errorf("failed to initialize translator: %w", err)
	}

	return tr, log, func() {
		cleanup()
		_ = log.Sync()
	}, nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
