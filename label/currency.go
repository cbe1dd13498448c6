package label

const (
	AED Symbol = "AED"
	AMD Symbol = "AMD"
	ARS Symbol = "ARS"
	AUD Symbol = "AUD"
	AZN Symbol = "AZN"
	BDT Symbol = "BDT"
	BGN Symbol = "BGN"
	BHD Symbol = "BHD"
	BND Symbol = "BND"
	BRL Symbol = "BRL"
	BYN Symbol = "BYN"
	CAD Symbol = "CAD"
	CHF Symbol = "CHF"
	CLP Symbol = "CLP"
	CNY Symbol = "CNY"
	COP Symbol = "COP"
	CZK Symbol = "CZK"
	DKK Symbol = "DKK"
	DZD Symbol = "DZD"
	EGP Symbol = "EGP"
	EUR Symbol = "EUR"
	GBP Symbol = "GBP"
	HKD Symbol = "HKD"
	HUF Symbol = "HUF"
	IDR Symbol = "IDR"
	ILS Symbol = "ILS"
	INR Symbol = "INR"
	ISK Symbol = "ISK"
	JPY Symbol = "JPY"
	KGS Symbol = "KGS"
	KRW Symbol = "KRW"
	KWD Symbol = "KWD"
	KZT Symbol = "KZT"
	MAD Symbol = "MAD"
	MDL Symbol = "MDL"
	MXN Symbol = "MXN"
	MYR Symbol = "MYR"
	NGN Symbol = "NGN"
	NOK Symbol = "NOK"
	NZD Symbol = "NZD"
	OMR Symbol = "OMR"
	PHP Symbol = "PHP"
	PKR Symbol = "PKR"
	PLN Symbol = "PLN"
	QAR Symbol = "QAR"
	RON Symbol = "RON"
	RSD Symbol = "RSD"
	RUB Symbol = "RUB"
	SAR Symbol = "SAR"
	SDG Symbol = "SDG"
	SEK Symbol = "SEK"
	SGD Symbol = "SGD"
	THB Symbol = "THB"
	TJS Symbol = "TJS"
	TMT Symbol = "TMT"
	TND Symbol = "TND"
	TRY Symbol = "TRY"
	UAH Symbol = "UAH"
	USD Symbol = "USD"
	UZS Symbol = "UZS"
	XDR Symbol = "XDR"
	ZAR Symbol = "ZAR"
	ZMW Symbol = "ZMW"
)

// Currencies is the reference list of currencies with English display names
var Currencies = map[Symbol]Currency{
	AED: {Symbol: AED, Name: "UAE Dirham"},
	AMD: {Symbol: AMD, Name: "Armenian Dram"},
	ARS: {Symbol: ARS, Name: "Argentine Peso"},
	AUD: {Symbol: AUD, Name: "Australian Dollar"},
	AZN: {Symbol: AZN, Name: "Azerbaijanian Manat"},
	BDT: {Symbol: BDT, Name: "Bangladesh Taka"},
	BGN: {Symbol: BGN, Name: "Bulgarian Lev"},
	BHD: {Symbol: BHD, Name: "Bahraini Dinar"},
	BND: {Symbol: BND, Name: "Brunei Dollar"},
	BRL: {Symbol: BRL, Name: "Brazilian Real"},
	BYN: {Symbol: BYN, Name: "Belarusian Ruble"},
	CAD: {Symbol: CAD, Name: "Canadian Dollar"},
	CHF: {Symbol: CHF, Name: "Swiss Franc"},
	CLP: {Symbol: CLP, Name: "Chilean Peso"},
	CNY: {Symbol: CNY, Name: "Chinese Yuan"},
	COP: {Symbol: COP, Name: "Colombian Peso"},
	CZK: {Symbol: CZK, Name: "Czech Koruna"},
	DKK: {Symbol: DKK, Name: "Danish Krone"},
	DZD: {Symbol: DZD, Name: "Algerian Dinar"},
	EGP: {Symbol: EGP, Name: "Egyptian Pound"},
	EUR: {Symbol: EUR, Name: "Euro"},
	GBP: {Symbol: GBP, Name: "Pound Sterling"},
	HKD: {Symbol: HKD, Name: "Hong Kong Dollar"},
	HUF: {Symbol: HUF, Name: "Hungarian Forint"},
	IDR: {Symbol: IDR, Name: "Indonesian Rupiah"},
	ILS: {Symbol: ILS, Name: "Israeli New Shekel"},
	INR: {Symbol: INR, Name: "Indian Rupee"},
	ISK: {Symbol: ISK, Name: "Iceland Krona"},
	JPY: {Symbol: JPY, Name: "Japanese Yen"},
	KGS: {Symbol: KGS, Name: "Kyrgyzstan Som"},
	KRW: {Symbol: KRW, Name: "South Korean Won"},
	KWD: {Symbol: KWD, Name: "Kuwaiti Dinar"},
	KZT: {Symbol: KZT, Name: "Kazakhstan Tenge"},
	MAD: {Symbol: MAD, Name: "Moroccan Dirham"},
	MDL: {Symbol: MDL, Name: "Moldovan Leu"},
	MXN: {Symbol: MXN, Name: "Mexican Peso"},
	MYR: {Symbol: MYR, Name: "Malaysian Ringgit"},
	NGN: {Symbol: NGN, Name: "Nigerian Naira"},
	NOK: {Symbol: NOK, Name: "Norwegian Krone"},
	NZD: {Symbol: NZD, Name: "New Zealand Dollar"},
	OMR: {Symbol: OMR, Name: "Omani Rial"},
	PHP: {Symbol: PHP, Name: "Philippine Peso"},
	PKR: {Symbol: PKR, Name: "Pakistan Rupee"},
	PLN: {Symbol: PLN, Name: "Polish Zloty"},
	QAR: {Symbol: QAR, Name: "Qatari Riyal"},
	RON: {Symbol: RON, Name: "Romanian Leu"},
	RSD: {Symbol: RSD, Name: "Serbian Dinar"},
	RUB: {Symbol: RUB, Name: "Russian Ruble"},
	SAR: {Symbol: SAR, Name: "Saudi Riyal"},
	SDG: {Symbol: SDG, Name: "Sudanese Pound"},
	SEK: {Symbol: SEK, Name: "Swedish Krona"},
	SGD: {Symbol: SGD, Name: "Singapore Dollar"},
	THB: {Symbol: THB, Name: "Thai Baht"},
	TJS: {Symbol: TJS, Name: "Tajikistan Somoni"},
	TMT: {Symbol: TMT, Name: "Turkmenistan Manat"},
	TND: {Symbol: TND, Name: "Tunisian Dinar"},
	TRY: {Symbol: TRY, Name: "Turkish Lira"},
	UAH: {Symbol: UAH, Name: "Ukrainian Hryvnia"},
	USD: {Symbol: USD, Name: "US Dollar"},
	UZS: {Symbol: UZS, Name: "Uzbekistan Sum"},
	XDR: {Symbol: XDR, Name: "SDR"},
	ZAR: {Symbol: ZAR, Name: "South African Rand"},
	ZMW: {Symbol: ZMW, Name: "Zambian Kwacha"},
}

// Names maps a display name to its currency symbol
var Names = func() map[string]Symbol {
	names := make(map[string]Symbol, len(Currencies))
	for symbol, ccy := range Currencies {
		names[ccy.Name] = symbol
	}

	return names
}()
