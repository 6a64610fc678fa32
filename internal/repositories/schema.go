package repositories

// Master registry tabs.
const (
	CompaniesTab   = "Companies"
	TenantUsersTab = "TenantUsers"
	AdminsTab      = "AdminUsers"
)

// Tenant store tabs. ValidateTenantStore ensures exactly this set.
const (
	UsersTab    = "Users"
	InvoicesTab = "Invoices"
	ClientsTab  = "Clients"
	ProductsTab = "Products"
	SettingsTab = "Settings"
)

// Evolving any of these header lists is a breaking change that requires
// migrating existing rows.
var (
	companyHeaders = []string{
		"CompanyID", "CompanyName", "Subdomain", "SheetID", "AdminEmail",
		"Plan", "Status", "TaxID", "Phone", "Address", "City", "Country",
		"Currency", "CreatedAt",
	}
	tenantUserHeaders = []string{
		"UserID", "CompanyID", "Email", "Username", "FullName", "Role",
		"PasswordHash", "CreatedAt",
	}
	storeUserHeaders = []string{"Username", "Password", "Role"}
	invoiceHeaders   = []string{"InvoiceNumber", "Date", "Client", "Total", "Status", "PayloadJSON"}
	clientHeaders    = []string{"Name", "Email", "Phone", "Address"}
	productHeaders   = []string{"SKU", "Name", "Price", "Description"}
	settingsHeaders  = []string{"Key", "Value"}
)

// tenantStoreSchema pairs each required tenant-store tab with its header row.
var tenantStoreSchema = []struct {
	Tab     string
	Headers []string
}{
	{InvoicesTab, invoiceHeaders},
	{ClientsTab, clientHeaders},
	{ProductsTab, productHeaders},
	{SettingsTab, settingsHeaders},
	{UsersTab, storeUserHeaders},
}
