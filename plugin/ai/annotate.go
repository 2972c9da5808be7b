package ai

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/mindlens/plugin/ai/timeout"
)

// Annotation is the derived metadata for one diary entry.
type Annotation struct {
	// Emotions and Tags are ordered by descending confidence.
	Emotions  []string
	Tags      []string
	Sentiment string
	Risk      *RiskAssessment
}

// Annotator runs the classifiers over one entry. The three calls are
// independent, so they fan out concurrently.
type Annotator struct {
	emotions EmotionClassifier
	tagger   ContextTagger
	risk     RiskScorer
}

// NewAnnotator creates an Annotator from explicit collaborators. Passing
// them in (instead of a process-wide instance) keeps tests on fakes.
func NewAnnotator(emotions EmotionClassifier, tagger ContextTagger, risk RiskScorer) *Annotator {
	return &Annotator{emotions: emotions, tagger: tagger, risk: risk}
}

// Annotate classifies the text and derives sentiment from the emotion
// labels by majority vote.
func (a *Annotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.AnnotateTimeout)
	defer cancel()

	var ann Annotation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emotions, err := a.emotions.ClassifyEmotions(gctx, text)
		if err != nil {
			return err
		}
		ann.Emotions = emotions
		return nil
	})
	g.Go(func() error {
		tags, err := a.tagger.ClassifyTags(gctx, text)
		if err != nil {
			return err
		}
		ann.Tags = tags
		return nil
	})
	g.Go(func() error {
		risk, err := a.risk.Assess(gctx, text)
		if err != nil {
			return err
		}
		ann.Risk = risk
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ann.Sentiment = VotesToSentiment(ann.Emotions)
	return &ann, nil
}
