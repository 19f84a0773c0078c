package accounting

// SeedAccount describes one account of the canonical chart installed at
// company onboarding.
type SeedAccount struct {
	Number       string
	Name         string
	TypeName     string
	ParentNumber string
	SystemTag    *SystemTag
	IsControl    bool
}

// SeedAccountType describes one global account type.
type SeedAccountType struct {
	Name     string
	Category AccountCategory
}

func tag(t SystemTag) *SystemTag { return &t }

// CanonicalAccountTypes lists the global account types every installation
// carries.
func CanonicalAccountTypes() []SeedAccountType {
	return []SeedAccountType{
		{"Current Asset", CategoryAsset},
		{"Fixed Asset", CategoryAsset},
		{"Accumulated Depreciation", CategoryAsset},
		{"Current Liability", CategoryLiability},
		{"Long Term Liability", CategoryLiability},
		{"Equity", CategoryEquity},
		{"Revenue", CategoryRevenue},
		{"Other Income", CategoryRevenue},
		{"Expense", CategoryExpense},
		{"Depreciation Expense", CategoryExpense},
	}
}

// CanonicalChart returns the standard chart of accounts seeded for a new
// company. Parents are listed before their children.
func CanonicalChart() []SeedAccount {
	return []SeedAccount{
		// Current assets
		{Number: "1110", Name: "Bank Accounts", TypeName: "Current Asset", SystemTag: tag(TagCash)},
		{Number: "1200", Name: "Accounts Receivable", TypeName: "Current Asset", SystemTag: tag(TagAR), IsControl: true},
		{Number: "1300", Name: "Inventory Asset", TypeName: "Current Asset", SystemTag: tag(TagInventoryAsset)},

		// Fixed assets
		{Number: "1500", Name: "Fixed Assets", TypeName: "Fixed Asset"},
		{Number: "1510", Name: "Land", TypeName: "Fixed Asset", ParentNumber: "1500"},
		{Number: "1520", Name: "Buildings", TypeName: "Fixed Asset", ParentNumber: "1500"},
		{Number: "1530", Name: "Machinery & Equipment", TypeName: "Fixed Asset", ParentNumber: "1500"},
		{Number: "1540", Name: "Vehicles", TypeName: "Fixed Asset", ParentNumber: "1500"},
		{Number: "1550", Name: "Office Equipment", TypeName: "Fixed Asset", ParentNumber: "1500"},

		// Accumulated depreciation (contra-asset)
		{Number: "1600", Name: "Accumulated Depreciation", TypeName: "Accumulated Depreciation"},
		{Number: "1620", Name: "Accumulated Depreciation - Buildings", TypeName: "Accumulated Depreciation", ParentNumber: "1600"},
		{Number: "1630", Name: "Accumulated Depreciation - Machinery", TypeName: "Accumulated Depreciation", ParentNumber: "1600"},
		{Number: "1640", Name: "Accumulated Depreciation - Vehicles", TypeName: "Accumulated Depreciation", ParentNumber: "1600"},
		{Number: "1650", Name: "Accumulated Depreciation - Office Equipment", TypeName: "Accumulated Depreciation", ParentNumber: "1600"},

		// Liabilities
		{Number: "2100", Name: "Current Liabilities", TypeName: "Current Liability"},
		{Number: "2200", Name: "Accounts Payable", TypeName: "Current Liability", ParentNumber: "2100", SystemTag: tag(TagAP), IsControl: true},
		{Number: "2300", Name: "Sales Tax Payable", TypeName: "Current Liability", ParentNumber: "2100", SystemTag: tag(TagSalesTaxPayable)},

		// Equity
		{Number: "3000", Name: "Equity", TypeName: "Equity"},
		{Number: "3100", Name: "Owner's Capital", TypeName: "Equity", ParentNumber: "3000"},
		{Number: "3200", Name: "Retained Earnings", TypeName: "Equity", ParentNumber: "3000", SystemTag: tag(TagRetainedEarnings)},

		// Revenue
		{Number: "4000", Name: "Income / Revenue", TypeName: "Revenue"},
		{Number: "4100", Name: "Sales Revenue", TypeName: "Revenue", ParentNumber: "4000"},
		{Number: "4200", Name: "Service Revenue", TypeName: "Revenue", ParentNumber: "4000"},
		{Number: "4300", Name: "Interest Income", TypeName: "Revenue", ParentNumber: "4000"},

		// Income accounts for fair-value stock inflows
		{Number: "4900", Name: "Donation Income", TypeName: "Other Income"},
		{Number: "4910", Name: "Customer Returns", TypeName: "Other Income"},
		{Number: "4920", Name: "Inventory Adjustments", TypeName: "Other Income"},

		// Expenses
		{Number: "5000", Name: "Expenses", TypeName: "Expense"},
		{Number: "5100", Name: "Cost of Goods Sold", TypeName: "Expense", ParentNumber: "5000", SystemTag: tag(TagCOGS)},
		{Number: "5200", Name: "Rent Expense", TypeName: "Expense", ParentNumber: "5000"},
		{Number: "5300", Name: "Salaries & Wages", TypeName: "Expense", ParentNumber: "5000"},
		{Number: "5400", Name: "Office Supplies", TypeName: "Expense", ParentNumber: "5000"},
		{Number: "6400", Name: "Utilities Expense", TypeName: "Expense", ParentNumber: "5000"},

		// Depreciation expense
		{Number: "5500", Name: "Depreciation Expense", TypeName: "Depreciation Expense"},
		{Number: "5520", Name: "Depreciation - Buildings", TypeName: "Depreciation Expense", ParentNumber: "5500"},
		{Number: "5530", Name: "Depreciation - Machinery", TypeName: "Depreciation Expense", ParentNumber: "5500"},
		{Number: "5540", Name: "Depreciation - Vehicles", TypeName: "Depreciation Expense", ParentNumber: "5500"},
		{Number: "5550", Name: "Depreciation - Office Equipment", TypeName: "Depreciation Expense", ParentNumber: "5500"},
	}
}
