package persian

// banks maps the six digit BIN of Shetab cards to the issuing bank.
var banks = map[string]string{
	"603799": "بانک ملی ایران",
	"589210": "بانک سپه",
	"627648": "بانک توسعه صادرات",
	"207177": "بانک توسعه صادرات",
	"627961": "بانک صنعت و معدن",
	"603770": "بانک کشاورزی",
	"639217": "بانک کشاورزی",
	"628023": "بانک مسکن",
	"627760": "پست بانک",
	"502908": "بانک توسعه تعاون",
	"627412": "بانک اقتصاد نوین",
	"622106": "بانک پارسیان",
	"639194": "بانک پارسیان",
	"627884": "بانک پارسیان",
	"502229": "بانک پاسارگاد",
	"639347": "بانک پاسارگاد",
	"627488": "بانک کارآفرین",
	"502910": "بانک کارآفرین",
	"621986": "بانک سامان",
	"639346": "بانک سینا",
	"639607": "بانک سرمایه",
	"636214": "بانک آینده",
	"502806": "بانک شهر",
	"504706": "بانک شهر",
	"502938": "بانک دی",
	"603769": "بانک صادرات ایران",
	"610433": "بانک ملت",
	"991975": "بانک ملت",
	"627353": "بانک تجارت",
	"585983": "بانک تجارت",
	"589463": "بانک رفاه کارگران",
	"627381": "بانک انصار",
	"639370": "بانک مهر اقتصاد",
	"505785": "بانک ایران زمین",
	"636949": "بانک حکمت ایرانیان",
	"505416": "بانک گردشگری",
	"606373": "بانک قرض‌الحسنه مهر ایران",
	"504172": "بانک قرض‌الحسنه رسالت",
	"507677": "موسسه اعتباری نور",
	"606256": "موسسه اعتباری ملل",
	"628157": "موسسه اعتباری توسعه",
	"505801": "موسسه اعتباری کوثر",
}

// BankName returns the issuing bank of card from its first six digits.
func BankName(card string) (string, bool) {
	c := NormalizeCard(card)
	if len(c) < 6 || !allDigits(c[:6]) {
		return "", false
	}
	name, ok := banks[c[:6]]
	return name, ok
}
