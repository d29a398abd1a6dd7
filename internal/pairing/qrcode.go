// Package pairing encodes serve-mode connection info as terminal QR
// codes so another device can find the status stream.
package pairing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ConnectionInfo contains the information encoded in the QR code.
type ConnectionInfo struct {
	Version   int    `json:"version"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	WSURL     string `json:"ws_url"`
	HTTPURL   string `json:"http_url"`
	SessionID string `json:"session_id"`
	RepoName  string `json:"repo_name"`
}

// QRGenerator generates QR codes carrying serve-mode connection info.
type QRGenerator struct {
	host      string
	port      int
	sessionID string
	repoName  string
}

// NewQRGenerator creates a new QR code generator.
func NewQRGenerator(host string, port int, sessionID, repoName string) *QRGenerator {
	return &QRGenerator{
		host:      host,
		port:      port,
		sessionID: sessionID,
		repoName:  repoName,
	}
}

// GetConnectionInfo returns the connection information.
func (g *QRGenerator) GetConnectionInfo() *ConnectionInfo {
	return &ConnectionInfo{
		Version:   1,
		Host:      g.host,
		Port:      g.port,
		WSURL:     fmt.Sprintf("ws://%s:%d/ws", g.host, g.port),
		HTTPURL:   fmt.Sprintf("http://%s:%d/api", g.host, g.port),
		SessionID: g.sessionID,
		RepoName:  g.repoName,
	}
}

// GenerateJSON returns the connection info as JSON.
func (g *QRGenerator) GenerateJSON() (string, error) {
	info := g.GetConnectionInfo()
	data, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateTerminal generates a QR code for terminal display.
func (g *QRGenerator) GenerateTerminal() (string, error) {
	jsonData, err := g.GenerateJSON()
	if err != nil {
		return "", err
	}

	qr, err := qrcode.New(jsonData, qrcode.Medium)
	if err != nil {
		return "", err
	}

	return qr.ToSmallString(false), nil
}

// GeneratePNG generates a PNG image of the QR code.
func (g *QRGenerator) GeneratePNG(size int) ([]byte, error) {
	jsonData, err := g.GenerateJSON()
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(jsonData, qrcode.Medium, size)
}

// PrintToTerminal prints the QR code to the terminal with a border.
func (g *QRGenerator) PrintToTerminal() {
	qrStr, err := g.GenerateTerminal()
	if err != nil {
		fmt.Printf("  [Error generating QR code: %v]\n", err)
		return
	}

	lines := strings.Split(qrStr, "\n")

	fmt.Println()
	fmt.Println("  Scan to watch this repository:")
	fmt.Println()

	for _, line := range lines {
		if line != "" {
			fmt.Printf("  %s\n", line)
		}
	}

	fmt.Println()
}
