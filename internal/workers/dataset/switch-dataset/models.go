// internal/workers/dataset/switch-dataset/models.go
package switchdataset

type Input struct {
	DatasetName string `json:"datasetName"`
}

// Output reports whether the switch happened. ActiveDataset is the name in
// effect afterwards, which is the previous one when Switched is false.
// ErrorCode and Reason are set only for a rejected switch.
type Output struct {
	Switched      bool   `json:"switched"`
	ActiveDataset string `json:"activeDataset"`
	ErrorCode     string `json:"errorCode,omitempty"`
	Reason        string `json:"reason,omitempty"`
}
