// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export renders a schedule's response matrix as an XLSX workbook.

	data, err := export.MatrixWorkbook(view)

The single sheet holds a header row of candidate names, one row per
participant with ○ (present), ? (uncertain) or × (absent) per candidate and
the participant's comment, then Present, Uncertain, Absent and Rank rows
taken from the view summary.
*/
package export
