package treasury

// apiSecurity is one element of the TA_WS securities/search response.
// Every field is a string; rates are percentages and may be empty.
type apiSecurity struct {
	CUSIP                    string `json:"cusip"`
	IssueDate                string `json:"issueDate"`
	SecurityType             string `json:"securityType"`
	SecurityTerm             string `json:"securityTerm"`
	MaturityDate             string `json:"maturityDate"`
	InterestRate             string `json:"interestRate"`
	InterestPaymentFrequency string `json:"interestPaymentFrequency"`
	Spread                   string `json:"spread"`
	Type                     string `json:"type"`
}
