package fallback

// Dictionary 目标语言 -> 小写英文短语 -> 译文
type Dictionary map[string]map[string]string

// bundled 内置离线词典
var bundled = Dictionary{
	"es": {
		"hello":             "hola",
		"hi":                "hola",
		"goodbye":           "adiós",
		"good morning":      "buenos días",
		"good afternoon":    "buenas tardes",
		"good evening":      "buenas noches",
		"good night":        "buenas noches",
		"thank you":         "gracias",
		"thanks":            "gracias",
		"please":            "por favor",
		"yes":               "sí",
		"no":                "no",
		"sorry":             "lo siento",
		"excuse me":         "disculpe",
		"how are you":       "cómo estás",
		"welcome":           "bienvenido",
		"friend":            "amigo",
		"water":             "agua",
		"food":              "comida",
		"help":              "ayuda",
		"world":             "mundo",
		"i love you":        "te quiero",
		"see you later":     "hasta luego",
		"what is your name": "cómo te llamas",
	},
	"fr": {
		"hello":         "bonjour",
		"hi":            "salut",
		"goodbye":       "au revoir",
		"good morning":  "bonjour",
		"good evening":  "bonsoir",
		"good night":    "bonne nuit",
		"thank you":     "merci",
		"thanks":        "merci",
		"please":        "s'il vous plaît",
		"yes":           "oui",
		"no":            "non",
		"sorry":         "désolé",
		"excuse me":     "excusez-moi",
		"how are you":   "comment allez-vous",
		"welcome":       "bienvenue",
		"friend":        "ami",
		"water":         "eau",
		"food":          "nourriture",
		"help":          "aide",
		"world":         "monde",
		"i love you":    "je t'aime",
		"see you later": "à plus tard",
	},
	"de": {
		"hello":         "hallo",
		"hi":            "hallo",
		"goodbye":       "auf wiedersehen",
		"good morning":  "guten morgen",
		"good evening":  "guten abend",
		"good night":    "gute nacht",
		"thank you":     "danke",
		"thanks":        "danke",
		"please":        "bitte",
		"yes":           "ja",
		"no":            "nein",
		"sorry":         "entschuldigung",
		"excuse me":     "entschuldigen sie",
		"how are you":   "wie geht es dir",
		"welcome":       "willkommen",
		"friend":        "freund",
		"water":         "wasser",
		"food":          "essen",
		"help":          "hilfe",
		"world":         "welt",
		"i love you":    "ich liebe dich",
		"see you later": "bis später",
	},
	"it": {
		"hello":         "ciao",
		"hi":            "ciao",
		"goodbye":       "arrivederci",
		"good morning":  "buongiorno",
		"good evening":  "buonasera",
		"good night":    "buonanotte",
		"thank you":     "grazie",
		"thanks":        "grazie",
		"please":        "per favore",
		"yes":           "sì",
		"no":            "no",
		"sorry":         "mi dispiace",
		"how are you":   "come stai",
		"welcome":       "benvenuto",
		"friend":        "amico",
		"water":         "acqua",
		"food":          "cibo",
		"help":          "aiuto",
		"world":         "mondo",
		"i love you":    "ti amo",
		"see you later": "a dopo",
	},
	"pt": {
		"hello":          "olá",
		"hi":             "oi",
		"goodbye":        "adeus",
		"good morning":   "bom dia",
		"good afternoon": "boa tarde",
		"good night":     "boa noite",
		"thank you":      "obrigado",
		"thanks":         "obrigado",
		"please":         "por favor",
		"yes":            "sim",
		"no":             "não",
		"sorry":          "desculpe",
		"how are you":    "como vai você",
		"welcome":        "bem-vindo",
		"friend":         "amigo",
		"water":          "água",
		"food":           "comida",
		"help":           "ajuda",
		"world":          "mundo",
		"i love you":     "eu te amo",
	},
	"zh": {
		"hello":        "你好",
		"goodbye":      "再见",
		"good morning": "早上好",
		"good night":   "晚安",
		"thank you":    "谢谢",
		"thanks":       "谢谢",
		"please":       "请",
		"yes":          "是",
		"no":           "不",
		"sorry":        "对不起",
		"how are you":  "你好吗",
		"welcome":      "欢迎",
		"friend":       "朋友",
		"water":        "水",
		"help":         "帮助",
		"world":        "世界",
		"i love you":   "我爱你",
	},
	"ja": {
		"hello":        "こんにちは",
		"goodbye":      "さようなら",
		"good morning": "おはようございます",
		"good night":   "おやすみなさい",
		"thank you":    "ありがとう",
		"thanks":       "ありがとう",
		"please":       "お願いします",
		"yes":          "はい",
		"no":           "いいえ",
		"sorry":        "ごめんなさい",
		"how are you":  "お元気ですか",
		"welcome":      "ようこそ",
		"friend":       "友達",
		"water":        "水",
		"help":         "助けて",
		"world":        "世界",
	},
}
