package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/platform/openai"
	"github.com/seojin-dev/moodshift-backend/internal/recommend"
)

// ChatReply is the chatbot's answer to one user message.
type ChatReply struct {
	Answer          string `json:"answer"`
	DetectedEmotion string `json:"detected_emotion"`
}

// RecommendReply couples a character-voiced message with the structured
// recommendation it narrates.
type RecommendReply struct {
	Answer         string           `json:"answer"`
	Recommendation recommend.Result `json:"recommendation_data"`
}

type ChatService interface {
	// Chat detects the emotion in sentence and answers empathetically in the
	// chosen character's voice.
	Chat(ctx context.Context, sentence, character string) (ChatReply, error)

	// RecommendWithNarration runs the recommender over the conversation text
	// and wraps the result in a character-voiced message.
	RecommendWithNarration(ctx context.Context, conversation, category, character string, topK int) (RecommendReply, error)

	// ExtractEmotion classifies text into the closed emotion vocabulary,
	// falling back to the default label on any oracle trouble.
	ExtractEmotion(ctx context.Context, text string) string
}

type chatService struct {
	log          *logger.Logger
	oc           openai.Client
	recommendSvc recommend.Service
}

func NewChatService(log *logger.Logger, oc openai.Client, recommendSvc recommend.Service) ChatService {
	return &chatService{
		log:          log.With("service", "ChatService"),
		oc:           oc,
		recommendSvc: recommendSvc,
	}
}

func (cs *chatService) ExtractEmotion(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 5 {
		return DefaultEmotion
	}

	answer, err := cs.oc.GenerateText(ctx, extractEmotionSystem, extractEmotionPrompt(text))
	if err != nil {
		cs.log.Warn("Emotion extraction failed; using default",
			"default", DefaultEmotion,
			"error", err.Error(),
		)
		return DefaultEmotion
	}

	label := strings.ToLower(strings.Trim(strings.TrimSpace(answer), ".!\"'"))
	if !IsValidEmotion(label) {
		cs.log.Warn("Emotion extraction answered off-vocabulary; using default",
			"answer", answer,
			"default", DefaultEmotion,
		)
		return DefaultEmotion
	}
	return label
}

func (cs *chatService) Chat(ctx context.Context, sentence, character string) (ChatReply, error) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return ChatReply{}, fmt.Errorf("sentence required")
	}

	emotion := cs.ExtractEmotion(ctx, sentence)

	answer, err := cs.oc.GenerateText(ctx, characterPrompt(character), empathyPrompt(sentence, emotion))
	if err != nil {
		cs.log.Warn("Empathy generation failed; using canned reply", "error", err.Error())
		answer = fallbackEmpathyReply
	}

	return ChatReply{Answer: answer, DetectedEmotion: emotion}, nil
}

func (cs *chatService) RecommendWithNarration(ctx context.Context, conversation, category, character string, topK int) (RecommendReply, error) {
	conversation = strings.TrimSpace(conversation)
	if conversation == "" {
		conversation = "an ordinary day"
	}

	result, err := cs.recommendSvc.Recommend(ctx, conversation, category, topK)
	if err != nil {
		return RecommendReply{}, err
	}

	if len(result.Items) == 0 {
		return RecommendReply{
			Answer:         fmt.Sprintf("I couldn't find any %s picks for you right now.", result.Category),
			Recommendation: result,
		}, nil
	}

	formatted := formatRecommendations(result.Category, result.Items)
	answer, genErr := cs.oc.GenerateText(ctx, characterPrompt(character),
		recommendationPrompt(string(result.Category), result.CurrentEmotion, result.TargetEmotion, formatted))
	if genErr != nil {
		cs.log.Warn("Recommendation narration failed; using canned reply", "error", genErr.Error())
		answer = fallbackRecommendReply
	}

	return RecommendReply{Answer: answer, Recommendation: result}, nil
}

// formatRecommendations renders ranked items as a bullet list for the
// narration prompt. The layout is category-specific.
func formatRecommendations(cat catalog.Category, items []recommend.RankedItem) string {
	var b strings.Builder
	for _, ri := range items {
		it := ri.Item
		switch cat {
		case catalog.CategoryBook:
			fmt.Fprintf(&b, "- %s by %s: %s\n", it.Title, it.Author, it.Description)
		case catalog.CategoryMusic:
			fmt.Fprintf(&b, "- %s by %s: %s\n", it.Title, it.Artist, it.Description)
		case catalog.CategoryMeal:
			fmt.Fprintf(&b, "- %s (%s): %s\n", it.Name, it.Cuisine, it.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
