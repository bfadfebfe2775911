package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	InterestedIn string `json:"interestedIn"`
	SwipeLimit   int    `json:"swipeLimit"`
	SpinLimit    int    `json:"spinLimit"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type FeedPage struct {
	Users []User `json:"users"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type SwipeResult struct {
	Matched bool `json:"matched"`
}

type MatchEntry struct {
	User     User    `json:"user"`
	IsPinned bool    `json:"isPinned"`
	ChatID   *string `json:"chatId"`
}

type Chat struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
}

type Message struct {
	ID       string   `json:"id"`
	SenderID string   `json:"senderId"`
	Content  string   `json:"content"`
	ReadBy   []string `json:"readBy"`
}

// Register creates a new account and returns it with a bearer token
func (c *APIClient) Register(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", "", body, &result); err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return &result, nil
}

func (c *APIClient) UpdateProfile(token string, profile map[string]string) (*User, error) {
	var user User
	if err := c.do(http.MethodPut, "/auth/update-profile", token, profile, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (c *APIClient) Feed(token string, page, limit int) (*FeedPage, error) {
	var feed FeedPage
	path := fmt.Sprintf("/auth/all-users?page=%d&limit=%d", page, limit)
	if err := c.do(http.MethodGet, path, token, nil, &feed); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return &feed, nil
}

func (c *APIClient) Swipe(token, targetID, direction string) (bool, error) {
	body := map[string]string{
		"targetUserId": targetID,
		"direction":    direction,
	}

	var result SwipeResult
	if err := c.do(http.MethodPost, "/auth/swipe", token, body, &result); err != nil {
		return false, fmt.Errorf("swipe %s on %s: %w", direction, targetID, err)
	}
	return result.Matched, nil
}

func (c *APIClient) Matches(token string) ([]MatchEntry, error) {
	var entries []MatchEntry
	if err := c.do(http.MethodGet, "/auth/matches", token, nil, &entries); err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	return entries, nil
}

func (c *APIClient) StartChat(token, targetID string) (*Chat, error) {
	var chat Chat
	body := map[string]string{"targetUserId": targetID}
	if err := c.do(http.MethodPost, "/chat/start", token, body, &chat); err != nil {
		return nil, fmt.Errorf("start chat: %w", err)
	}
	return &chat, nil
}

func (c *APIClient) PostMessage(token, chatID, content string) (*Message, error) {
	var msg Message
	body := map[string]string{"content": content}
	if err := c.do(http.MethodPost, "/chat/"+chatID+"/message", token, body, &msg); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	return &msg, nil
}

func (c *APIClient) Messages(token, chatID string) ([]Message, error) {
	var messages []Message
	if err := c.do(http.MethodGet, "/chat/messages/"+chatID, token, nil, &messages); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// HTTP helpers

// do sends body as JSON and decodes the data of a success envelope into out.
func (c *APIClient) do(method, path, token string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("status %d: %s: %s", resp.StatusCode, env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
