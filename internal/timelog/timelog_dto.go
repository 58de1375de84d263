package timelog

type SyncRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type SyncResponse struct {
	From              string `json:"from"`
	To                string `json:"to"`
	Fetched           int    `json:"fetched"`
	Inserted          int    `json:"inserted"`
	SkippedUnknown    int    `json:"skipped_unknown"`
	SkippedIncomplete int    `json:"skipped_incomplete"`
	SkippedExisting   int    `json:"skipped_existing"`
}

func toSyncResponse(r SyncResult) SyncResponse {
	return SyncResponse{
		From:              r.From.Format(dateLayout),
		To:                r.To.Format(dateLayout),
		Fetched:           r.Fetched,
		Inserted:          r.Inserted,
		SkippedUnknown:    r.SkippedUnknown,
		SkippedIncomplete: r.SkippedIncomplete,
		SkippedExisting:   r.SkippedExisting,
	}
}
