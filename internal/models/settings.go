package models

// Settings is the fixed key set materialized from the tenant Settings tab.
// Missing keys fall back to the defaults applied in the registry layer.
type Settings struct {
	CompanyName string `json:"companyName"`
	LogoURL     string `json:"logoUrl"`
	BrandColor  string `json:"brandColor"`
	BankDetails string `json:"bankDetails"`
	Currency    string `json:"currency"`
	TaxID       string `json:"taxId"`
	Address     string `json:"address"`
}
