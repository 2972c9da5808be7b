package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/mindlens/internal/observability"
	"github.com/hrygo/mindlens/internal/profile"
	"github.com/hrygo/mindlens/plugin/ai"
	"github.com/hrygo/mindlens/plugin/ai/rag"
	"github.com/hrygo/mindlens/plugin/ai/timeout"
	"github.com/hrygo/mindlens/store"
	"github.com/hrygo/mindlens/store/db"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "mindlens",
	Short: "MindLens is a private, AI-powered digital diary",
	Long: `MindLens annotates diary entries with emotions, sentiment, context tags
and a risk assessment, embeds them for semantic retrieval, and answers
natural-language questions over the stored history.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the diary, can be "dev" or "prod"`)
	rootCmd.PersistentFlags().String("data", "data", "data directory")
	rootCmd.PersistentFlags().String("vector-store", profile.VectorStoreEmbedded, `vector store backend, "embedded" or "pgvector"`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string for the pgvector backend")

	for _, flag := range []string{"mode", "data", "vector-store", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("mindlens")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newAddCmd(), newSearchCmd(), newListCmd(), newDeleteCmd())
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:        viper.GetString("mode"),
		Data:        viper.GetString("data"),
		VectorStore: viper.GetString("vector-store"),
		DSN:         viper.GetString("dsn"),
		Version:     version,
	}
	p.FromEnv()
	// Flags win over environment for the backend selector.
	if v := viper.GetString("vector-store"); v != "" {
		p.VectorStore = v
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// openStore wires the selected backend, the journal and the facade.
func openStore(p *profile.Profile) (*store.Store, error) {
	logger := observability.NewLogger(p.IsDev())
	driver, err := db.NewVectorDriver(p, logger)
	if err != nil {
		return nil, err
	}
	journal := store.NewJournal(p.Data, logger)
	return store.New(driver, journal, p, logger), nil
}

func newEmbedder(p *profile.Profile) (ai.EmbeddingService, error) {
	cfg := ai.NewConfigFromProfile(p)
	if !cfg.Enabled {
		return nil, fmt.Errorf("AI is not enabled: set MINDLENS_AI_ENABLED=true and an API key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return ai.NewEmbeddingService(&cfg.Embedding)
}

func newAddCmd() *cobra.Command {
	var date, imagePath, imageDesc, videoPath string
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			s, err := openStore(p)
			if err != nil {
				return err
			}
			defer s.Close()

			embedder, err := newEmbedder(p)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			text := args[0]

			annotator := ai.NewAnnotator(
				ai.NewKeywordEmotionClassifier(),
				ai.NewKeywordTagger(),
				ai.NewKeywordRiskScorer(),
			)
			ann, err := annotator.Annotate(ctx, text)
			if err != nil {
				return err
			}

			embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
			defer cancel()
			embedding, err := embedder.Embed(embedCtx, text)
			if err != nil {
				return err
			}

			record := &store.Record{
				ID:        store.NewRecordID(),
				Date:      store.NormalizeDate(date),
				Text:      text,
				Embedding: embedding,
				Sentiment: ann.Sentiment,
				Emotions:  ann.Emotions,
				Tags:      ann.Tags,
				ImagePath: optional(imagePath),
				ImageDesc: optional(imageDesc),
				VideoPath: optional(videoPath),
			}
			if err := s.Upsert(ctx, []*store.Record{record}); err != nil {
				return err
			}

			fmt.Printf("Saved entry %s (%s)\n", record.ID, record.Date)
			fmt.Printf("  sentiment: %s  emotions: %s  tags: %s\n",
				record.Sentiment, strings.Join(record.Emotions, ", "), strings.Join(record.Tags, ", "))
			if ann.Risk != nil && ann.Risk.Label == "Suicidal" {
				fmt.Println("  This entry shows signs of distress. If you need support, please reach out to someone you trust or a local crisis line.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "entry date (defaults to today, accepts common formats)")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to an attached image")
	cmd.Flags().StringVar(&imageDesc, "image-desc", "", "description of the attached image")
	cmd.Flags().StringVar(&videoPath, "video", "", "path to an attached video")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var k int
	var tags, emotions []string
	var ask bool
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries by meaning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			s, err := openStore(p)
			if err != nil {
				return err
			}
			defer s.Close()

			embedder, err := newEmbedder(p)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			query := args[0]

			embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
			defer cancel()
			vector, err := embedder.Embed(embedCtx, query)
			if err != nil {
				return err
			}

			hits := s.Query(ctx, vector, k, &store.QueryFilter{Tags: tags, Emotions: emotions})
			if len(hits) == 0 {
				fmt.Println("No matching entries found.")
				return nil
			}

			if ask {
				cfg := ai.NewConfigFromProfile(p)
				llm, err := ai.NewLLMService(&cfg.LLM)
				if err != nil {
					return err
				}
				logger := observability.NewLogger(p.IsDev())
				fmt.Println(rag.NewSummarizer(llm, logger).Summarize(ctx, query, hits))
				return nil
			}

			for i, h := range hits {
				r := h.Record
				fmt.Printf("%d. [%s] score=%.3f %s\n", i+1, r.Date, h.Score, r.Text)
				fmt.Printf("   sentiment: %s  emotions: %s  tags: %s\n",
					r.Sentiment, strings.Join(r.Emotions, ", "), strings.Join(r.Tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "top", "k", 5, "number of results")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "only return entries with any of these tags")
	cmd.Flags().StringSliceVar(&emotions, "emotions", nil, "only return entries with any of these emotions")
	cmd.Flags().BoolVar(&ask, "ask", false, "summarize the results with the configured LLM")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every entry in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			s, err := openStore(p)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListEntries()
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Printf("%s  [%s]  %s\n", r.ID, r.Date, r.Text)
			}
			fmt.Printf("%d entries\n", len(records))
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an entry from the journal and the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			s, err := openStore(p)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted entry %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "id of the entry to delete")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
