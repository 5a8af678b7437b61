package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, LLM calls can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func chat(sessionID, message string) map[string]interface{} {
	color.Yellow("\n>> %s", message)
	resp, body, err := sendRequest("POST", "/assistant/v1/chat", "", map[string]interface{}{
		"session_id": sessionID,
		"message":    message,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	prettyPrint(out)
	return out
}

func main() {
	color.Cyan("🚀 Walking the aftercare assistant through a full conversation\n")

	sessionID := fmt.Sprintf("smoke-%d", os.Getpid())

	// 1. Identity stage: introduce with a seeded patient code
	chat(sessionID, "PT-1001")

	// 2. Small talk while identified
	chat(sessionID, "Thanks! How are you today?")

	// 3. Clinical question: hands off to the clinical agent
	chat(sessionID, "I've been having headaches since my discharge. Should I be worried?")

	// 4. Temporal question: should route to web search
	chat(sessionID, "What is the latest research on dialysis?")

	// 5. Session state check
	color.Yellow("\n>> GET session state")
	resp, body, err := sendRequest("GET", "/assistant/v1/sessions/"+sessionID+"/state", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var stateResp map[string]interface{}
	json.Unmarshal(body, &stateResp)
	prettyPrint(stateResp)

	color.Cyan("\n✅ Conversation walk complete")
}
