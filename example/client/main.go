// Command toolserver-client connects to mcp-toolserver over stdio, lists
// the available tools and runs a few of them.
//
// Build the server first, then:
//
//	go run . -server ../../mcp-toolserver
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	serverBin := flag.String("server", "mcp-toolserver", "path to the mcp-toolserver binary")
	flag.Parse()

	ctx := context.Background()

	cmd := exec.Command(*serverBin, "-stdio")
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "toolserver-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("failed to close session: %v", err)
		}
	}()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		log.Fatalf("failed to list tools: %v", err)
	}

	fmt.Println("Available tools:")
	for _, tool := range tools.Tools {
		fmt.Printf("  %s - %s\n", tool.Name, tool.Description)
	}
	fmt.Println()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "calculate_bmi",
		Arguments: map[string]any{
			"weight_kg": 70.0,
			"height_m":  1.75,
		},
	})
	if err != nil {
		log.Fatalf("failed to call calculate_bmi: %v", err)
	}
	printResult("calculate_bmi", result)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "greet",
		Arguments: map[string]any{"name": "Ada"},
	})
	if err != nil {
		log.Fatalf("failed to call greet: %v", err)
	}
	printResult("greet", result)
}

func printResult(tool string, result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("%s failed:\n", tool)
	} else {
		fmt.Printf("%s:\n", tool)
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			fmt.Println(text.Text)
		}
	}
	fmt.Println()
}
