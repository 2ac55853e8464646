package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Defaults verifies default page params when no query values provided.
func TestParsePageParams_Defaults(t *testing.T) {
	p := ParsePageParams(url.Values{}, 0)
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected per_page %d, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and per_page values.
func TestParsePageParams_Valid(t *testing.T) {
	q := url.Values{"page": {"3"}, "per_page": {"50"}}
	p := ParsePageParams(q, 10)
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PerPage != 50 {
		t.Errorf("expected per_page 50, got %d", p.PerPage)
	}
}

// TestParsePageParams_InvalidPerPage verifies fallback for a per_page outside the options.
func TestParsePageParams_InvalidPerPage(t *testing.T) {
	p := ParsePageParams(url.Values{"per_page": {"25"}}, 20)
	if p.PerPage != 20 {
		t.Errorf("expected fallback per_page 20, got %d", p.PerPage)
	}
}

// TestParsePageParams_NegativePage verifies page is clamped to 1 for negative input.
func TestParsePageParams_NegativePage(t *testing.T) {
	p := ParsePageParams(url.Values{"page": {"-1"}}, 10)
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
}

// TestParseFilterParams verifies search, status and refresh parsing.
func TestParseFilterParams(t *testing.T) {
	f := ParseFilterParams(url.Values{"q": {"  phy "}, "status": {"Active"}, "refresh": {"1"}})
	if f.Search != "phy" || f.Status != "Active" || !f.Refresh {
		t.Errorf("got %+v", f)
	}
	if f := ParseFilterParams(url.Values{"refresh": {"yes"}}); f.Refresh {
		t.Error("refresh should only accept 1")
	}
}

// TestNewPageInfo verifies page metadata and clamping.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantStart, wantEnd   int
	}{
		{"first page", 1, 10, 25, 1, 3, 1, 10},
		{"last partial page", 3, 10, 25, 3, 3, 21, 25},
		{"past the end", 9, 10, 25, 3, 3, 21, 25},
		{"empty", 1, 10, 0, 1, 1, 0, 0},
		{"exact fit", 2, 5, 10, 2, 2, 6, 10},
		{"zero per page", 1, 0, 5, 1, 1, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("page/pages = %d/%d, want %d/%d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
			if info.StartRow() != tt.wantStart || info.EndRow() != tt.wantEnd {
				t.Errorf("rows = %d-%d, want %d-%d", info.StartRow(), info.EndRow(), tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// TestPageNumbers verifies the window of page buttons.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, totalPages int
		want             []int
	}{
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		p := PageInfo{Page: tt.page, PerPage: 10, Total: tt.totalPages * 10, TotalPages: tt.totalPages}
		got := p.PageNumbers()
		if len(got) != len(tt.want) {
			t.Fatalf("PageNumbers(%d of %d) = %v, want %v", tt.page, tt.totalPages, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("PageNumbers(%d of %d) = %v, want %v", tt.page, tt.totalPages, got, tt.want)
				break
			}
		}
	}
}

// TestCursor_ResetAndSet verifies cursor movement.
func TestCursor_ResetAndSet(t *testing.T) {
	c := NewCursor(10)
	c.Set(4)
	if c.Page != 4 {
		t.Fatalf("Page = %d, want 4", c.Page)
	}
	c.Reset()
	if c.Page != 1 {
		t.Errorf("Page after Reset = %d, want 1", c.Page)
	}
	c.Set(-3)
	if c.Page != 1 {
		t.Errorf("Page after Set(-3) = %d, want 1", c.Page)
	}
}

// TestCursor_InfoClamps verifies the cursor never points past the last page.
func TestCursor_InfoClamps(t *testing.T) {
	c := NewCursor(10)
	c.Set(5)
	info := c.Info(12)
	if info.Page != 2 || c.Page != 2 {
		t.Errorf("Page = %d (cursor %d), want 2", info.Page, c.Page)
	}
}

// TestPaginate verifies page slices over a list.
func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	c := NewCursor(3)

	page, info := Paginate(&c, items)
	if len(page) != 3 || page[0] != 1 || info.TotalPages != 3 {
		t.Errorf("page 1 = %v, %+v", page, info)
	}

	c.Set(3)
	page, _ = Paginate(&c, items)
	if len(page) != 1 || page[0] != 7 {
		t.Errorf("page 3 = %v, want [7]", page)
	}

	c.Set(3)
	page, info = Paginate(&c, items[:2])
	if len(page) != 2 || info.Page != 1 {
		t.Errorf("shrunk list = %v, %+v", page, info)
	}

	page, info = Paginate(&c, []int{})
	if len(page) != 0 || info.Total != 0 {
		t.Errorf("empty list = %v, %+v", page, info)
	}
}

// TestShowPagination verifies controls are hidden when everything fits.
func TestShowPagination(t *testing.T) {
	if NewPageInfo(1, 10, 10).ShowPagination() {
		t.Error("expected no pagination for 10 of 10")
	}
	if !NewPageInfo(1, 10, 11).ShowPagination() {
		t.Error("expected pagination for 11 rows")
	}
}
