package chi

import (
	"fmt"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
)

// dateLayout is the wire format for filing dates and date filters.
const dateLayout = "2006-01-02"

type trackDocumentRequest struct {
	CompanyName string `json:"company_name"`
	Form        string `json:"form"`
	FilingDate  string `json:"filing_date"`
	URL         string `json:"url"`
}

type trackDocumentResponse struct {
	ID string `json:"id"`
}

type markProcessedRequest struct {
	URL          string `json:"url"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}

type saveContentRequest struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

type companySearchRequest struct {
	CompanyName    string   `json:"company_name"`
	FormTypes      []string `json:"form_types"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	IncludeContent bool     `json:"include_content"`
	Page           int      `json:"page"`
	PageSize       int      `json:"page_size"`
}

type filingSearchRequest struct {
	FormTypes []string `json:"form_types"`
	Companies []string `json:"companies"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
}

type contentSearchRequest struct {
	SearchText    string   `json:"search_text"`
	Companies     []string `json:"companies"`
	FormTypes     []string `json:"form_types"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	ExactMatch    bool     `json:"exact_match"`
	CaseSensitive bool     `json:"case_sensitive"`
	Page          int      `json:"page"`
	PageSize      int      `json:"page_size"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchResultItem struct {
	ID             string   `json:"id"`
	CompanyName    string   `json:"company_name"`
	Form           string   `json:"form"`
	FilingDate     string   `json:"filing_date"`
	URL            string   `json:"url"`
	Processed      bool     `json:"processed"`
	Success        bool     `json:"success"`
	RelevanceScore float64  `json:"relevance_score"`
	Highlights     []string `json:"highlights,omitempty"`
	Content        string   `json:"content,omitempty"`
}

type documentResponse struct {
	ID            string     `json:"id"`
	CompanyName   string     `json:"company_name"`
	Form          string     `json:"form"`
	FilingDate    string     `json:"filing_date"`
	URL           string     `json:"url"`
	Processed     bool       `json:"processed"`
	Success       bool       `json:"success"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	ProcessedDate *time.Time `json:"processed_date,omitempty"`
}

type documentListResponse struct {
	Items []documentResponse `json:"items"`
	Total int                `json:"total"`
}

// pageResponse is the paging envelope shared by every paged endpoint.
type pageResponse[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

type crawlMetricsResponse struct {
	TotalDocuments       int            `json:"total_documents"`
	ProcessedDocuments   int            `json:"processed_documents"`
	UnprocessedDocuments int            `json:"unprocessed_documents"`
	SuccessfulDocuments  int            `json:"successful_documents"`
	FailedDocuments      int            `json:"failed_documents"`
	SuccessRate          float64        `json:"success_rate"`
	FormTypeCounts       map[string]int `json:"form_type_counts"`
	LastProcessedDate    *time.Time     `json:"last_processed_date,omitempty"`
}

type yearlyMetricsResponse struct {
	crawlMetricsResponse
	Year      int      `json:"year"`
	Companies []string `json:"companies"`
}

type yearlyListResponse struct {
	Items []yearlyMetricsResponse `json:"items"`
}

type companyMetricsResponse struct {
	crawlMetricsResponse
	CompanyName string `json:"company_name"`
}

type processingErrorItem struct {
	CompanyName  string    `json:"company_name"`
	Form         string    `json:"form"`
	URL          string    `json:"url"`
	ErrorMessage string    `json:"error_message"`
	ErrorDate    time.Time `json:"error_date"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// parseDate parses an optional YYYY-MM-DD field; empty means unset.
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

func toCompanyRequest(req companySearchRequest) (searchuc.CompanyRequest, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return searchuc.CompanyRequest{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return searchuc.CompanyRequest{}, err
	}
	return searchuc.CompanyRequest{
		CompanyName:    req.CompanyName,
		FormTypes:      req.FormTypes,
		StartDate:      start,
		EndDate:        end,
		IncludeContent: req.IncludeContent,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}, nil
}

func toFormRequest(req filingSearchRequest) (searchuc.FormRequest, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return searchuc.FormRequest{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return searchuc.FormRequest{}, err
	}
	return searchuc.FormRequest{
		FormTypes: req.FormTypes,
		Companies: req.Companies,
		StartDate: start,
		EndDate:   end,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}, nil
}

func toContentRequest(req contentSearchRequest) (searchuc.ContentRequest, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return searchuc.ContentRequest{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return searchuc.ContentRequest{}, err
	}
	return searchuc.ContentRequest{
		SearchText:    req.SearchText,
		Companies:     req.Companies,
		FormTypes:     req.FormTypes,
		StartDate:     start,
		EndDate:       end,
		ExactMatch:    req.ExactMatch,
		CaseSensitive: req.CaseSensitive,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}, nil
}

func toResultItem(r searchuc.Result) searchResultItem {
	return searchResultItem{
		ID:             r.ID,
		CompanyName:    r.CompanyName,
		Form:           r.Form.String(),
		FilingDate:     r.FilingDate.Format(dateLayout),
		URL:            r.URL,
		Processed:      r.Processed,
		Success:        r.Success,
		RelevanceScore: r.RelevanceScore,
		Highlights:     r.Highlights,
		Content:        r.Content,
	}
}

func toDocumentResponse(rec domain.DocumentRecord) documentResponse {
	resp := documentResponse{
		ID:           rec.ID(),
		CompanyName:  rec.CompanyName(),
		Form:         rec.Form().String(),
		FilingDate:   rec.FilingDate().Format(dateLayout),
		URL:          rec.URL(),
		Processed:    rec.Processed(),
		Success:      rec.Success(),
		ErrorMessage: rec.ErrorMessage(),
	}
	if !rec.ProcessedDate().IsZero() {
		d := rec.ProcessedDate().UTC()
		resp.ProcessedDate = &d
	}
	return resp
}

func toCrawlResponse(m domain.CrawlMetrics) crawlMetricsResponse {
	forms := make(map[string]int, len(m.FormTypeCounts))
	for f, n := range m.FormTypeCounts {
		forms[f.String()] = n
	}

	resp := crawlMetricsResponse{
		TotalDocuments:       m.TotalDocuments,
		ProcessedDocuments:   m.ProcessedDocuments,
		UnprocessedDocuments: m.UnprocessedDocuments,
		SuccessfulDocuments:  m.SuccessfulDocuments,
		FailedDocuments:      m.FailedDocuments,
		SuccessRate:          m.SuccessRate,
		FormTypeCounts:       forms,
	}
	if !m.LastProcessedDate.IsZero() {
		d := m.LastProcessedDate.UTC()
		resp.LastProcessedDate = &d
	}
	return resp
}

func toYearlyResponse(y domain.YearlyMetrics) yearlyMetricsResponse {
	return yearlyMetricsResponse{
		crawlMetricsResponse: toCrawlResponse(y.CrawlMetrics),
		Year:                 y.Year,
		Companies:            y.Companies,
	}
}

func toYearlyList(years []domain.YearlyMetrics) yearlyListResponse {
	items := make([]yearlyMetricsResponse, len(years))
	for i, y := range years {
		items[i] = toYearlyResponse(y)
	}
	return yearlyListResponse{Items: items}
}

func toCompanyMetricsResponse(cm domain.CompanyMetrics) companyMetricsResponse {
	return companyMetricsResponse{
		crawlMetricsResponse: toCrawlResponse(cm.CrawlMetrics),
		CompanyName:          cm.CompanyName,
	}
}

func toErrorItem(pe domain.ProcessingError) processingErrorItem {
	return processingErrorItem{
		CompanyName:  pe.CompanyName,
		Form:         pe.Form.String(),
		URL:          pe.URL,
		ErrorMessage: pe.ErrorMessage,
		ErrorDate:    pe.ErrorDate.UTC(),
	}
}

// toPageResponse converts a usecase page into the wire envelope.
func toPageResponse[T, U any](p pagination.Page[T], conv func(T) U) pageResponse[U] {
	mapped := pagination.Map(p, conv)
	return pageResponse[U]{
		Items:       mapped.Items,
		TotalCount:  mapped.TotalCount,
		Page:        mapped.PageNumber,
		PageSize:    mapped.PageSize,
		TotalPages:  mapped.TotalPages,
		HasNextPage: mapped.HasNextPage,
		HasPrevPage: mapped.HasPrevPage,
	}
}
