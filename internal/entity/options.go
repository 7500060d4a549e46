package entity

var ProductOptions = []string{
	"orderqr",
	"crm-normal",
	"civil-crm",
	"web-services",
	"web-apps",
}

var ClientSourceOptions = []string{
	"facebook",
	"instagram",
	"twitter",
	"linkedin",
	"google",
	"website",
	"referral",
	"marketplace",
	"local-market",
	"social-media",
	"whatsapp",
	"other",
}

var FirstApproachOptions = []string{
	"call",
	"whatsapp",
	"email",
	"instagram-dm",
	"facebook-dm",
	"in-person",
	"message",
	"other",
}

var PaymentOptions = []string{
	"cash",
	"card",
	"bank-transfer",
	"online",
	"pending",
	"full-payment",
	"partial-payment",
	"installment",
	"free",
}

func IsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
