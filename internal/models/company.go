// internal/models/company.go
package models

// Company is one account from a dataset's companies document. Generators
// only read companies.
type Company struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Website                string   `json:"website,omitempty"`
	Industry               string   `json:"industry,omitempty"`
	HeadquartersCountry    string   `json:"headquartersCountry,omitempty"`
	HeadquartersCity       string   `json:"headquartersCity,omitempty"`
	HeadquartersState      string   `json:"headquartersState,omitempty"`
	Employees              string   `json:"employees,omitempty"`
	EmployeeCount          int      `json:"employeeCount,omitempty"`
	TotalFunding           string   `json:"totalFunding,omitempty"`
	EstimatedAnnualRevenue string   `json:"estimatedAnnualRevenue,omitempty"`
	YearFounded            int      `json:"yearFounded,omitempty"`
	Tags                   []string `json:"tags,omitempty"`
}
