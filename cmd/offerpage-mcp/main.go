package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"

	"github.com/use-agent/offerpage/loader"
	"github.com/use-agent/offerpage/models"
)

func main() {
	apiURL := os.Getenv("OFFERPAGE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiURL = strings.TrimRight(apiURL, "/")

	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(60*time.Second).
		SetHeader("Accept", "application/json")

	s := server.NewMCPServer(
		"offerpage",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	getOfferTool := mcp.NewTool("get_offer",
		mcp.WithDescription("Return the landing page's current offer: its phase (loading, error or ready) and, once ready, the normalized title, description, bullets, paragraphs and image URLs."),
	)
	s.AddTool(getOfferTool, handleGetOffer(client))

	scrapeOfferTool := mcp.NewTool("scrape_offer",
		mcp.WithDescription("Scrape an offer page through the offerpage backend and return the raw extracted payload (title, headings, description, paragraphs, bullets, images)."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the offer page to scrape"),
		),
	)
	s.AddTool(scrapeOfferTool, handleScrapeOffer(client))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetOffer(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var out models.OfferResponse
		resp, err := client.R().
			SetContext(ctx).
			SetResult(&out).
			Get("/api/v1/offer")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		if resp.IsError() {
			return mcp.NewToolResultError(fmt.Sprintf("API returned %s", resp.Status())), nil
		}

		switch out.Phase {
		case models.PhaseError:
			errMsg := models.MsgGeneric
			if out.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", out.Error.Code, out.Error.Message)
			}
			return mcp.NewToolResultError(fmt.Sprintf("offer %s failed: %s", out.OfferURL, errMsg)), nil
		case models.PhaseReady:
			if out.Offer == nil {
				return mcp.NewToolResultError("ready response carried no offer"), nil
			}
			return mcp.NewToolResultText(formatOffer(out.OfferURL, out.Offer)), nil
		default:
			return mcp.NewToolResultText(fmt.Sprintf("Offer %s is still loading; try again shortly.", out.OfferURL)), nil
		}
	}
}

func handleScrapeOffer(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		resp, err := client.R().
			SetContext(ctx).
			SetQueryParam("url", target).
			Get(loader.ScrapeOfferPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		if resp.IsError() {
			body := gjson.ParseBytes(resp.Body())
			if msg := body.Get("error.message").String(); msg != "" {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", body.Get("error.code").String(), msg)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("API returned %s", resp.Status())), nil
		}

		payload, err := loader.DecodePayload(resp.Body())
		if err != nil {
			return mcp.NewToolResultError(models.UserMessage(err)), nil
		}

		pretty, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format payload: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Source: %s\n\n%s", target, pretty)), nil
	}
}

// formatOffer renders a NormalizedOffer as plain text for the model.
func formatOffer(offerURL string, o *models.NormalizedOffer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nSource: %s\n\n%s\n", o.Title, offerURL, o.Description)

	if len(o.HeroBullets) > 0 {
		sb.WriteString("\nKey benefits:\n")
		for _, b := range o.HeroBullets {
			sb.WriteString("- " + b + "\n")
		}
	}
	sb.WriteString("\nWhat you get:\n")
	for _, b := range o.DetailBullets {
		sb.WriteString("- " + b + "\n")
	}
	for _, p := range o.Paragraphs {
		sb.WriteString("\n" + p + "\n")
	}
	if len(o.Images) > 0 {
		sb.WriteString("\nImages:\n")
		for _, img := range o.Images {
			sb.WriteString("- " + img.Src + "\n")
		}
	}
	return sb.String()
}
