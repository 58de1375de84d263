package leave

type SyncRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type SyncResponse struct {
	From              string `json:"from"`
	To                string `json:"to"`
	Records           int    `json:"records"`
	Inserted          int    `json:"inserted"`
	SkippedUnapproved int    `json:"skipped_unapproved"`
	SkippedUnknown    int    `json:"skipped_unknown"`
	SkippedInvalid    int    `json:"skipped_invalid"`
	SkippedExisting   int    `json:"skipped_existing"`
}

func toSyncResponse(r SyncResult) SyncResponse {
	return SyncResponse{
		From:              r.From.Format(dateLayout),
		To:                r.To.Format(dateLayout),
		Records:           r.Records,
		Inserted:          r.Inserted,
		SkippedUnapproved: r.SkippedUnapproved,
		SkippedUnknown:    r.SkippedUnknown,
		SkippedInvalid:    r.SkippedInvalid,
		SkippedExisting:   r.SkippedExisting,
	}
}
