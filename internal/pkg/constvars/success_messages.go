package constvars

const (
	SuccessClaimOpened        = "claim session opened"
	SuccessClaimClosed        = "claim session closed"
	SuccessLineItemRemoved    = "bill item removed"
	SuccessOpenQuerySet       = "open query flag updated"
	SuccessSnapshotFetched    = "claim snapshot fetched"
	SuccessLineItemUpdated    = "bill item updated"
	SuccessStageCompleted     = "step saved and completed"
	SuccessStageNavigated     = "step changed"
	SuccessDigitizationLocked = "digitization locked"
	SuccessRerunTriggered     = "re-adjudication triggered"
	SuccessChecklistUpdated   = "verification checklist updated"
	SuccessChecklistSubmitted = "verification checklist submitted"
	SuccessDocumentSelected   = "source document selected"
	SuccessDocumentURLIssued  = "document URL issued"
	SuccessDecisionSubmitted  = "adjudication decision submitted"
)
