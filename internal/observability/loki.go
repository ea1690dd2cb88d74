// Package observability handles structured logging for tool calls.
//
// Every tool call is logged to stderr. When Loki credentials are present in
// the environment, the same records are shipped to a Loki push endpoint.
// Stdout is never touched; it belongs to the protocol transport.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type LokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	appName    string
	instanceID string
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var defaultClient *LokiClient

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func Init() {
	url := os.Getenv("GITEA_LOKI_URL")
	username := os.Getenv("GITEA_LOKI_USER")
	apiKey := os.Getenv("GITEA_LOKI_API_KEY")

	appName := os.Getenv("APP_ENV")
	if appName == "" {
		appName = "forgemcp-dev"
	}

	instanceID := firstNonEmpty(
		os.Getenv("INSTANCE_ID"),
		os.Getenv("HOSTNAME"),
		"local",
	)

	if url == "" || username == "" || apiKey == "" {
		defaultClient = &LokiClient{enabled: false, appName: appName, instanceID: instanceID}
		return
	}

	defaultClient = &LokiClient{
		url:        url + "/loki/api/v1/push",
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
		appName:    appName,
		instanceID: instanceID,
	}
	log.Println("Loki client initialized")
}

func Push(labels map[string]string, data map[string]any) {
	if defaultClient == nil || !defaultClient.enabled {
		return
	}

	go defaultClient.push(labels, data)
}

func (c *LokiClient) push(labels map[string]string, data map[string]any) {
	if labels == nil {
		labels = make(map[string]string)
	}
	labels["app"] = c.appName
	labels["instance"] = c.instanceID

	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("Loki: failed to marshal data: %v", err)
		return
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)

	req := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: labels,
				Values: [][]string{
					{timestamp, string(dataJSON)},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("Loki: failed to marshal request: %v", err)
		return
	}

	httpReq, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Loki: failed to create request: %v", err)
		return
	}

	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("Loki: failed to send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Loki: unexpected status code: %d", resp.StatusCode)
		return
	}
}

// LogToolCall records one completed tool call. It always writes a line to
// stderr and additionally ships the record to Loki when configured.
func LogToolCall(requestID, tool string, durationMs int64, status string, errMsg string) {
	if errMsg != "" {
		log.Printf("tool=%s status=%s duration_ms=%d request_id=%s error=%q", tool, status, durationMs, requestID, errMsg)
	} else {
		log.Printf("tool=%s status=%s duration_ms=%d request_id=%s", tool, status, durationMs, requestID)
	}

	level := "info"
	if status == "error" {
		level = "error"
	}
	labels := map[string]string{
		"tool":   tool,
		"status": status,
		"level":  level,
	}

	data := map[string]any{
		"request_id":  requestID,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	Push(labels, data)
}

// LogError logs an error with a short context label.
func LogError(context string, err error) {
	log.Printf("%s: %v", context, err)

	labels := map[string]string{
		"type":  "error",
		"level": "error",
	}

	data := map[string]any{
		"context": context,
		"error":   fmt.Sprintf("%v", err),
	}

	Push(labels, data)
}
