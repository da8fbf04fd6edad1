// Command smoke walks a running server through register, login, ask, list and delete.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) send(method, path string, body interface{}) (*http.Response, *envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp, nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp, &env, nil
}

// step runs one request and exits on transport errors or an unexpected status.
func (c *client) step(title, method, path string, body interface{}, wantStatus int, out interface{}) {
	color.Yellow("\n%s", title)
	resp, env, err := c.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != wantStatus {
		color.Red("Status: %s (want %d) %s", resp.Status, wantStatus, env.Message)
		os.Exit(1)
	}
	color.Green("Status: %s %s", resp.Status, env.Message)
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			color.Red("Failed to decode data: %v", err)
			os.Exit(1)
		}
	}
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8000/api/v1", "API base URL including prefix")
	question := flag.String("question", "What is the fine for riding without a helmet?", "question to ask")
	flag.Parse()

	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: 90 * time.Second}}
	color.Cyan("🚀 Starting Traffic Law Assistant API smoke test against %s", c.baseURL)

	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	password := "smoke-password"

	var token struct {
		AccessToken string `json:"access_token"`
	}
	c.step("1. Register", http.MethodPost, "/auth/register", map[string]string{
		"email": email, "full_name": "Smoke Tester", "password": password,
	}, http.StatusCreated, nil)
	c.step("2. Login", http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, http.StatusOK, &token)
	c.token = token.AccessToken

	var answer struct {
		Response       string `json:"response"`
		ConversationId string `json:"conversation_id"`
	}
	c.step("3. Ask", http.MethodPost, "/chat/ask", map[string]string{"message": *question}, http.StatusOK, &answer)
	fmt.Printf("Reply: %s\n", answer.Response)

	var conversations []map[string]interface{}
	c.step("4. List conversations", http.MethodGet, "/conversations", nil, http.StatusOK, &conversations)
	fmt.Printf("Conversations: %d\n", len(conversations))

	var messages []map[string]interface{}
	c.step("5. List messages", http.MethodGet, "/conversations/"+answer.ConversationId+"/messages", nil, http.StatusOK, &messages)
	fmt.Printf("Messages: %d\n", len(messages))

	c.step("6. Delete conversation", http.MethodDelete, "/conversations/"+answer.ConversationId, nil, http.StatusOK, nil)
	c.step("7. Logout", http.MethodPost, "/auth/logout", nil, http.StatusOK, nil)

	color.Cyan("\n✅ Smoke test complete")
}
