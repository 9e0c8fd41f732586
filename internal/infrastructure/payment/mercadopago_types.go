package payment

// Wire types for the Mercado Pago checkout preference API.

type preferenceItemBody struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

type backURLsBody struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type disbursementBody struct {
	Amount            float64 `json:"amount"`
	ExternalReference string  `json:"external_reference"`
	CollectorID       string  `json:"collector_id"`
	ApplicationFee    float64 `json:"application_fee"`
}

type createPreferenceBody struct {
	ExternalReference string               `json:"external_reference"`
	Items             []preferenceItemBody `json:"items"`
	BackURLs          *backURLsBody        `json:"back_urls,omitempty"`
	AutoReturn        string               `json:"auto_return,omitempty"`
	NotificationURL   string               `json:"notification_url,omitempty"`
	Disbursements     []disbursementBody   `json:"disbursements,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type paymentResponse struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	PaymentTypeID     string  `json:"payment_type_id"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
