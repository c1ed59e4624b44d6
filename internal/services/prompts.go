package services

import (
	"fmt"
	"strings"
)

// EmotionLabels is the closed vocabulary the extractor may answer with.
var EmotionLabels = []string{"joy", "sadness", "anger", "calm", "fear"}

// DefaultEmotion is used whenever extraction fails or answers off-vocabulary.
const DefaultEmotion = "calm"

func IsValidEmotion(label string) bool {
	for _, l := range EmotionLabels {
		if l == label {
			return true
		}
	}
	return false
}

const extractEmotionSystem = "You classify the dominant emotion of a text. " +
	"Answer with exactly one word from this list: joy, sadness, anger, calm, fear. " +
	"No punctuation, no explanation."

func extractEmotionPrompt(text string) string {
	return fmt.Sprintf("Pick the single most prominent emotion in this text.\n\nText: %q\nEmotion:", text)
}

const extractRecentEmotionSystem = "You read a conversation and identify the most " +
	"recently expressed emotion. Ignore short greetings, thanks, and filler. " +
	"If several emotions appear, pick the latest one. " +
	"Answer with exactly one word from: joy, sadness, anger, calm, fear."

// characterPersonas maps each selectable companion to its voice.
var characterPersonas = map[string]string{
	"dog":     "You are a cheerful, loyal puppy companion. You are endlessly encouraging, a little excitable, and always on the user's side.",
	"cat":     "You are a cool-headed cat companion. You care deeply but show it with dry, understated warmth and the occasional aloof remark.",
	"bear":    "You are a big, calm bear companion. You speak slowly and warmly, like a dependable older friend.",
	"rabbit":  "You are a gentle, soft-spoken rabbit companion. You are shy but deeply empathetic and attentive.",
	"racoon":  "You are a playful, mischievous racoon companion. You cheer the user up with light humor while staying kind.",
	"hamster": "You are a tiny, energetic hamster companion. You are bubbly and talk in short, bright sentences.",
}

const defaultPersona = "You are a warm, friendly companion who listens carefully and responds with empathy."

func characterPrompt(character string) string {
	if p, ok := characterPersonas[strings.ToLower(strings.TrimSpace(character))]; ok {
		return p
	}
	return defaultPersona
}

func empathyPrompt(sentence, emotion string) string {
	return fmt.Sprintf(
		"The user just said: %q\nThey seem to be feeling %s.\n"+
			"In your character's voice, empathize with how they feel first, then gently keep the conversation going. "+
			"Write 2-4 sentences.", sentence, emotion)
}

func recommendationPrompt(category, currentEmotion, targetEmotion, formatted string) string {
	return fmt.Sprintf(
		"The user has been feeling %s. To shift their mood toward %s, we picked these %s recommendations:\n%s\n"+
			"In your character's voice, warmly present the top pick and why it could help. Write 3-5 sentences.",
		currentEmotion, targetEmotion, category, formatted)
}

// Canned replies for when the language model is unreachable.
const (
	fallbackEmpathyReply   = "That sounds like a lot to carry. I'm here with you, and I'd love to hear more whenever you're ready."
	fallbackRecommendReply = "I put together a few picks that might shift your mood. Take a look and see if one speaks to you."
)

// emotionMessages accompany diary analysis results.
var emotionMessages = map[string]string{
	"joy":     "What a good day you had! Here is something to hold onto this feeling a little longer.",
	"sadness": "It sounds like a hard day. Let these picks comfort you a little.",
	"anger":   "Something really got under your skin. These picks can help let the steam out.",
	"calm":    "A peaceful day. Here is something to keep that calm going.",
	"fear":    "There is some worry in your words. These picks can help settle your mind.",
}

const defaultEmotionMessage = "Based on how today felt, here are some picks for you."

func emotionMessage(label string) string {
	if m, ok := emotionMessages[label]; ok {
		return m
	}
	return defaultEmotionMessage
}
