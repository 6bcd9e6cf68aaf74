package models

// EasitExport is one ticket handed over to the Easit service desk.
type EasitExport struct {
	ExternalID      string `json:"externalId"`
	System          string `json:"system"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Requester       string `json:"requester"`
	DueDate         string `json:"dueDate"`
	OriginalPointID string `json:"originalPointId"`
}

// EasitColumns is the header row of an export file.
var EasitColumns = []string{"externalId", "system", "title", "description", "requester", "dueDate", "originalPointId"}

// Record returns the values in EasitColumns order.
func (e EasitExport) Record() []string {
	return []string{e.ExternalID, e.System, e.Title, e.Description, e.Requester, e.DueDate, e.OriginalPointID}
}
