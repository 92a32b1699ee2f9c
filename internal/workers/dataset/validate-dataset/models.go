// internal/workers/dataset/validate-dataset/models.go
package validatedataset

type Input struct {
	DatasetName string `json:"datasetName,omitempty"`
}

type Output struct {
	DatasetName string   `json:"datasetName"`
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
}
