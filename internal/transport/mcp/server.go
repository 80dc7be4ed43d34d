// Package mcp exposes the filing store to LLM agents over the Model Context
// Protocol: search and metrics tools served on stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
	statsuc "github.com/filinglab/edgardex/internal/usecase/stats"
	trackinguc "github.com/filinglab/edgardex/internal/usecase/tracking"
)

const dateLayout = "2006-01-02"

// Config holds MCP server identity.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around the usecase services.
type Server struct {
	mcpServer *server.MCPServer
	search    *searchuc.Service
	stats     *statsuc.Service
	tracking  *trackinguc.Service
	logger    *zap.Logger
}

// NewServer creates an MCP server with the filing search and metrics tools.
func NewServer(
	cfg Config,
	search *searchuc.Service,
	stats *statsuc.Service,
	tracking *trackinguc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			cfg.Name,
			cfg.Version,
			server.WithToolCapabilities(true),
		),
		search:   search,
		stats:    stats,
		tracking: tracking,
		logger:   logger,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	stringItems := map[string]any{"type": "string"}

	s.mcpServer.AddTool(mcp.NewTool("search_by_company",
		mcp.WithDescription("Search SEC filings by company name (case-insensitive substring). "+
			"Returns one page of filings, newest first."),
		mcp.WithString("company_name",
			mcp.Required(),
			mcp.Description("Company name or a fragment of it"),
		),
		mcp.WithArray("form_types",
			mcp.Description("Restrict to these SEC form codes (e.g. 10-K, 8-K)"),
			mcp.Items(stringItems),
		),
		mcp.WithString("start_date", mcp.Description("Earliest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithString("end_date", mcp.Description("Latest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithBoolean("include_content", mcp.Description("Attach stored document text to each hit")),
		mcp.WithNumber("page", mcp.Description("1-based page number (default: 1)")),
		mcp.WithNumber("page_size", mcp.Description("Results per page")),
	), s.searchByCompanyHandler)

	s.mcpServer.AddTool(mcp.NewTool("search_filings",
		mcp.WithDescription("Search SEC filings by form type and date range. "+
			"An empty form list means all known forms."),
		mcp.WithArray("form_types",
			mcp.Description("SEC form codes to match (e.g. 10-K, 8-K)"),
			mcp.Items(stringItems),
		),
		mcp.WithArray("companies",
			mcp.Description("Restrict to these exact company names"),
			mcp.Items(stringItems),
		),
		mcp.WithString("start_date", mcp.Description("Earliest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithString("end_date", mcp.Description("Latest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithNumber("page", mcp.Description("1-based page number (default: 1)")),
		mcp.WithNumber("page_size", mcp.Description("Results per page")),
	), s.searchFilingsHandler)

	s.mcpServer.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Full-text search over stored filing text. "+
			"Results are ranked by relevance and carry highlight snippets."),
		mcp.WithString("search_text",
			mcp.Required(),
			mcp.Description("Term or phrase to search for"),
		),
		mcp.WithArray("companies",
			mcp.Description("Restrict to these exact company names"),
			mcp.Items(stringItems),
		),
		mcp.WithArray("form_types",
			mcp.Description("Restrict to these SEC form codes"),
			mcp.Items(stringItems),
		),
		mcp.WithString("start_date", mcp.Description("Earliest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithString("end_date", mcp.Description("Latest filing date, YYYY-MM-DD (inclusive)")),
		mcp.WithBoolean("exact_match", mcp.Description("Match the whole phrase instead of separate words")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case exactly")),
		mcp.WithNumber("page", mcp.Description("1-based page number (default: 1)")),
		mcp.WithNumber("page_size", mcp.Description("Results per page")),
	), s.searchContentHandler)

	s.mcpServer.AddTool(mcp.NewTool("get_crawl_metrics",
		mcp.WithDescription("Crawl progress counts: total, processed, unprocessed, "+
			"successful and failed documents plus per-form counts."),
		mcp.WithString("company", mcp.Description("Scope to companies whose name contains this text")),
	), s.crawlMetricsHandler)

	s.mcpServer.AddTool(mcp.NewTool("get_yearly_metrics",
		mcp.WithDescription("Crawl metrics grouped by filing year, newest year first, "+
			"with the distinct companies that filed each year."),
		mcp.WithString("company", mcp.Description("Scope to companies whose name contains this text")),
	), s.yearlyMetricsHandler)

	s.mcpServer.AddTool(mcp.NewTool("get_processing_errors",
		mcp.WithDescription("Failed document listing, most recent failure first."),
		mcp.WithString("company", mcp.Description("Scope to companies whose name contains this text")),
		mcp.WithNumber("page", mcp.Description("1-based page number (default: 1)")),
		mcp.WithNumber("page_size", mcp.Description("Results per page")),
	), s.processingErrorsHandler)

	s.mcpServer.AddTool(mcp.NewTool("get_unprocessed_count",
		mcp.WithDescription("Number of tracked documents still awaiting processing."),
	), s.unprocessedCountHandler)
}

type resultItem struct {
	CompanyName    string   `json:"company_name"`
	Form           string   `json:"form"`
	FilingDate     string   `json:"filing_date"`
	URL            string   `json:"url"`
	Processed      bool     `json:"processed"`
	RelevanceScore float64  `json:"relevance_score"`
	Highlights     []string `json:"highlights,omitempty"`
	Content        string   `json:"content,omitempty"`
}

type resultPage struct {
	Items      []resultItem `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

type metricsOut struct {
	TotalDocuments       int            `json:"total_documents"`
	ProcessedDocuments   int            `json:"processed_documents"`
	UnprocessedDocuments int            `json:"unprocessed_documents"`
	SuccessfulDocuments  int            `json:"successful_documents"`
	FailedDocuments      int            `json:"failed_documents"`
	SuccessRate          float64        `json:"success_rate"`
	FormTypeCounts       map[string]int `json:"form_type_counts"`
	LastProcessedDate    string         `json:"last_processed_date,omitempty"`
}

type yearlyOut struct {
	metricsOut
	Year      int      `json:"year"`
	Companies []string `json:"companies"`
}

type errorItem struct {
	CompanyName  string `json:"company_name"`
	Form         string `json:"form"`
	URL          string `json:"url"`
	ErrorMessage string `json:"error_message"`
	ErrorDate    string `json:"error_date"`
}

type errorPage struct {
	Items      []errorItem `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

func (s *Server) searchByCompanyHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	company, err := req.RequireString("company_name")
	if err != nil {
		return mcp.NewToolResultError("company_name parameter is required"), nil
	}

	start, end, err := dateRange(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := s.search.CompanySearch(ctx, searchuc.CompanyRequest{
		CompanyName:    company,
		FormTypes:      req.GetStringSlice("form_types", nil),
		StartDate:      start,
		EndDate:        end,
		IncludeContent: req.GetBool("include_content", false),
		Page:           req.GetInt("page", 0),
		PageSize:       req.GetInt("page_size", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("company search failed: %v", err)), nil
	}

	s.logger.Debug("MCP tool served", zap.String("tool", "search_by_company"))
	return marshalResult(toResultPage(page))
}

func (s *Server) searchFilingsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateRange(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := s.search.FormSearch(ctx, searchuc.FormRequest{
		FormTypes: req.GetStringSlice("form_types", nil),
		Companies: req.GetStringSlice("companies", nil),
		StartDate: start,
		EndDate:   end,
		Page:      req.GetInt("page", 0),
		PageSize:  req.GetInt("page_size", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("filing search failed: %v", err)), nil
	}

	s.logger.Debug("MCP tool served", zap.String("tool", "search_filings"))
	return marshalResult(toResultPage(page))
}

func (s *Server) searchContentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("search_text")
	if err != nil {
		return mcp.NewToolResultError("search_text parameter is required"), nil
	}

	start, end, err := dateRange(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := s.search.ContentSearch(ctx, searchuc.ContentRequest{
		SearchText:    term,
		Companies:     req.GetStringSlice("companies", nil),
		FormTypes:     req.GetStringSlice("form_types", nil),
		StartDate:     start,
		EndDate:       end,
		ExactMatch:    req.GetBool("exact_match", false),
		CaseSensitive: req.GetBool("case_sensitive", false),
		Page:          req.GetInt("page", 0),
		PageSize:      req.GetInt("page_size", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("content search failed: %v", err)), nil
	}

	s.logger.Debug("MCP tool served", zap.String("tool", "search_content"))
	return marshalResult(toResultPage(page))
}

func (s *Server) crawlMetricsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := s.stats.CrawlMetrics(ctx, req.GetString("company", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("crawl metrics failed: %v", err)), nil
	}

	return marshalResult(toMetricsOut(m))
}

func (s *Server) yearlyMetricsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		years []domain.YearlyMetrics
		err   error
	)
	if company := req.GetString("company", ""); company != "" {
		years, err = s.stats.CompanyYearlyMetrics(ctx, company)
	} else {
		years, err = s.stats.YearlyMetrics(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("yearly metrics failed: %v", err)), nil
	}

	out := make([]yearlyOut, len(years))
	for i, y := range years {
		out[i] = yearlyOut{
			metricsOut: toMetricsOut(y.CrawlMetrics),
			Year:       y.Year,
			Companies:  y.Companies,
		}
	}
	return marshalResult(out)
}

func (s *Server) processingErrorsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.stats.ProcessingErrorsPage(ctx,
		req.GetString("company", ""),
		req.GetInt("page", 0),
		req.GetInt("page_size", 0),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("processing errors failed: %v", err)), nil
	}

	items := make([]errorItem, len(page.Items))
	for i, pe := range page.Items {
		items[i] = errorItem{
			CompanyName:  pe.CompanyName,
			Form:         pe.Form.String(),
			URL:          pe.URL,
			ErrorMessage: pe.ErrorMessage,
			ErrorDate:    pe.ErrorDate.UTC().Format(time.RFC3339),
		}
	}
	return marshalResult(errorPage{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.PageNumber,
		TotalPages: page.TotalPages,
	})
}

func (s *Server) unprocessedCountHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.tracking.Unprocessed(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unprocessed count failed: %v", err)), nil
	}

	return marshalResult(map[string]int{"count": len(recs)})
}

// dateRange reads the optional start_date and end_date arguments.
func dateRange(req mcp.CallToolRequest) (time.Time, time.Time, error) {
	start, err := parseDate(req.GetString("start_date", ""), "start_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(req.GetString("end_date", ""), "end_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be formatted as %s, got %q", field, dateLayout, value)
	}
	return t, nil
}

func toResultPage(p pagination.Page[searchuc.Result]) resultPage {
	items := make([]resultItem, len(p.Items))
	for i, r := range p.Items {
		items[i] = resultItem{
			CompanyName:    r.CompanyName,
			Form:           r.Form.String(),
			FilingDate:     r.FilingDate.Format(dateLayout),
			URL:            r.URL,
			Processed:      r.Processed,
			RelevanceScore: r.RelevanceScore,
			Highlights:     r.Highlights,
			Content:        r.Content,
		}
	}
	return resultPage{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.PageNumber,
		TotalPages: p.TotalPages,
	}
}

func toMetricsOut(m domain.CrawlMetrics) metricsOut {
	forms := make(map[string]int, len(m.FormTypeCounts))
	for f, n := range m.FormTypeCounts {
		forms[f.String()] = n
	}

	out := metricsOut{
		TotalDocuments:       m.TotalDocuments,
		ProcessedDocuments:   m.ProcessedDocuments,
		UnprocessedDocuments: m.UnprocessedDocuments,
		SuccessfulDocuments:  m.SuccessfulDocuments,
		FailedDocuments:      m.FailedDocuments,
		SuccessRate:          m.SuccessRate,
		FormTypeCounts:       forms,
	}
	if !m.LastProcessedDate.IsZero() {
		out.LastProcessedDate = m.LastProcessedDate.UTC().Format(time.RFC3339)
	}
	return out
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
