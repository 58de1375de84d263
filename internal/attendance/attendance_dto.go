package attendance

type DateRangeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ImportResponse struct {
	ImportID         string             `json:"import_id"`
	ImportNumber     int64              `json:"import_number,omitempty"`
	Source           string             `json:"source"`
	Stage            string             `json:"stage"`
	Range            *DateRangeResponse `json:"range,omitempty"`
	Rows             int                `json:"rows"`
	Excluded         int                `json:"excluded"`
	EmployeesCreated int                `json:"employees_created"`
	SkippedLabels    []string           `json:"skipped_labels,omitempty"`
	Inserted         int                `json:"inserted"`
	Updated          int                `json:"updated"`
	Skipped          int                `json:"skipped"`
	Archived         bool               `json:"archived"`
}

func toImportResponse(r ImportResult) ImportResponse {
	resp := ImportResponse{
		ImportID:         r.ImportID,
		ImportNumber:     r.ImportNumber,
		Source:           r.Source,
		Stage:            string(r.Stage),
		Rows:             r.Rows,
		Excluded:         r.Excluded,
		EmployeesCreated: r.EmployeesCreated,
		SkippedLabels:    r.SkippedLabels,
		Inserted:         r.Inserted,
		Updated:          r.Updated,
		Skipped:          r.Skipped,
		Archived:         r.Archived,
	}
	if !r.Range.IsZero() {
		resp.Range = &DateRangeResponse{
			From: r.Range.From.Format(dateLayout),
			To:   r.Range.To.Format(dateLayout),
		}
	}
	return resp
}
