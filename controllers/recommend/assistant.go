package recommendController

import (
	"fmt"
	"log"
	"strings"
	"time"

	"ruralearn/config"
	"ruralearn/database"
	"ruralearn/middleware"
	courseModels "ruralearn/models/course"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// chatMessage mirrors the chat-completions message format
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const historyWindow = 10

// buildSystemPrompt embeds the live course catalog so the assistant only
// talks about courses that actually exist
func buildSystemPrompt(courses []courseModels.Course) string {
	lines := make([]string, len(courses))
	for i, c := range courses {
		lines[i] = fmt.Sprintf("Title: %s, Category: %s, Level: %s, Description: %s", c.Title, c.Category, c.Level, c.Description)
	}

	return fmt.Sprintf(`You are a helpful learning assistant that helps users find and understand courses on our platform.
You provide personalized recommendations, answer questions about course content, and offer guidance on learning paths.

Here are the courses available in our database:
%s

When users ask about courses, use this information to provide relevant recommendations.
Always be supportive, encouraging, and positive about learning.
If a user asks for courses of a specific level (Beginner, Intermediate, Advanced), make sure to only recommend courses of that level.
Provide concise but detailed responses.`, strings.Join(lines, "\n"))
}

// callChatCompletion proxies the conversation to the configured
// chat-completions API
func callChatCompletion(messages []chatMessage) (string, error) {
	if config.AppConfig.OpenAIApiKey == "" {
		return "", fmt.Errorf("assistant API key not configured")
	}

	var result chatCompletionResponse
	resp, err := resty.New().
		SetTimeout(30 * time.Second).
		R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.OpenAIApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatCompletionRequest{
			Model:       config.AppConfig.OpenAIModel,
			Messages:    messages,
			Temperature: 0.7,
			MaxTokens:   1000,
		}).
		SetResult(&result).
		SetError(&result).
		Post(config.AppConfig.OpenAIApiURL)
	if err != nil {
		return "", fmt.Errorf("assistant API call: %w", err)
	}
	if resp.IsError() {
		if result.Error != nil {
			return "", fmt.Errorf("assistant API error: %s", result.Error.Message)
		}
		return "", fmt.Errorf("assistant API error: %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("assistant API returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// ExtractRecommendedCourses finds which catalog courses the assistant's
// reply mentions by title; when none are mentioned it falls back to
// level/category keywords in the user's own message.
func ExtractRecommendedCourses(reply, userMessage string, courses []courseModels.Course) []courseModels.Course {
	var recommended []courseModels.Course
	for _, course := range courses {
		if course.Title != "" && strings.Contains(reply, course.Title) {
			recommended = append(recommended, course)
		}
	}
	if len(recommended) > 0 {
		return recommended
	}

	lower := strings.ToLower(userMessage)

	level := ""
	for _, l := range []string{courseModels.LevelBeginner, courseModels.LevelIntermediate, courseModels.LevelAdvanced} {
		if strings.Contains(lower, strings.ToLower(l)) {
			level = l
			break
		}
	}

	category := ""
	for _, cat := range []string{"Technology", "Business", "Agriculture", "Health", "Education"} {
		if strings.Contains(lower, strings.ToLower(cat)) {
			category = cat
			break
		}
	}

	if level == "" && category == "" {
		return nil
	}

	for _, course := range courses {
		if level != "" && course.Level != level {
			continue
		}
		if category != "" && course.Category != category {
			continue
		}
		recommended = append(recommended, course)
	}
	return recommended
}

// Chat answers a learner's question with the LLM-backed assistant. Any
// upstream failure degrades to the rule-based recommender so the feature
// never hard-fails on the learner.
func Chat(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Message     string        `json:"message"`
		ChatHistory []chatMessage `json:"chat_history"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if strings.TrimSpace(reqData.Message) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course data!", nil)
	}

	messages := []chatMessage{{Role: "system", Content: buildSystemPrompt(courses)}}

	// Keep only the recent history for token efficiency
	history := reqData.ChatHistory
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages = append(messages, history...)
	messages = append(messages, chatMessage{Role: "user", Content: reqData.Message})

	reply, err := callChatCompletion(messages)
	if err != nil {
		// Degrade to rule-based recommendations instead of failing
		log.Printf("Learning assistant unavailable for user %d: %v", userID, err)
		prefs := loadPreferences(userID)
		fallback := FilterCourses(courses, "", "", prefs)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assistant unavailable, showing recommendations instead.", fiber.Map{
			"reply":               "Our assistant is napping right now, but here are some courses you might like.",
			"recommended_courses": fallback,
			"fallback":            true,
		})
	}

	recommended := ExtractRecommendedCourses(reply, reqData.Message, courses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assistant reply generated successfully!", fiber.Map{
		"reply":               reply,
		"recommended_courses": recommended,
		"fallback":            false,
	})
}
