package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginator(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		moves      func(p *Paginator)
		wantCursor int
		wantPage   int
		wantRange  [2]int
	}{
		{
			name:       "empty list",
			total:      0,
			moves:      func(p *Paginator) { p.CursorDown() },
			wantCursor: 0,
			wantPage:   1,
			wantRange:  [2]int{0, 0},
		},
		{
			name:  "cursor crosses page boundary",
			total: 12,
			moves: func(p *Paginator) {
				for range 5 {
					p.CursorDown()
				}
			},
			wantCursor: 5,
			wantPage:   2,
			wantRange:  [2]int{5, 10},
		},
		{
			name:       "cursor stops at last item",
			total:      3,
			moves:      func(p *Paginator) { p.SetCursor(99) },
			wantCursor: 2,
			wantPage:   1,
			wantRange:  [2]int{0, 3},
		},
		{
			name:  "next and previous page",
			total: 12,
			moves: func(p *Paginator) {
				p.NextPage()
				p.NextPage()
				p.PrevPage()
			},
			wantCursor: 5,
			wantPage:   2,
			wantRange:  [2]int{5, 10},
		},
		{
			name:       "last",
			total:      12,
			moves:      func(p *Paginator) { p.Last() },
			wantCursor: 11,
			wantPage:   3,
			wantRange:  [2]int{10, 12},
		},
		{
			name:  "shrinking total clamps cursor",
			total: 12,
			moves: func(p *Paginator) {
				p.Last()
				p.SetTotal(4)
			},
			wantCursor: 3,
			wantPage:   1,
			wantRange:  [2]int{0, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(5)
			p.SetTotal(tt.total)
			tt.moves(p)

			start, end := p.VisibleRange()
			assert.Equal(t, tt.wantCursor, p.Cursor())
			assert.Equal(t, tt.wantPage, p.CurrentPage())
			assert.Equal(t, tt.wantRange, [2]int{start, end})
		})
	}
}

func TestPaginator_SetPageSizeKeepsCursorVisible(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(25)

	p.SetPageSize(4)
	start, end := p.VisibleRange()
	assert.True(t, start <= 25 && 25 < end)
	assert.Equal(t, 8, p.TotalPages())
}
