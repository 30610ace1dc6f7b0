package detect

import "fmt"

// supportedLanguages maps ISO 639-1 codes to display names used in prompts
// and UIs.
var supportedLanguages = map[string]string{
	"auto": "Auto Detect",
	"en":   "English",
	"es":   "Spanish",
	"fr":   "French",
	"de":   "German",
	"it":   "Italian",
	"pt":   "Portuguese",
	"ru":   "Russian",
	"ja":   "Japanese",
	"ko":   "Korean",
	"zh":   "Chinese",
	"ar":   "Arabic",
	"hi":   "Hindi",
	"tr":   "Turkish",
	"nl":   "Dutch",
	"sv":   "Swedish",
	"da":   "Danish",
	"no":   "Norwegian",
	"fi":   "Finnish",
	"pl":   "Polish",
	"cs":   "Czech",
	"hu":   "Hungarian",
	"ro":   "Romanian",
	"bg":   "Bulgarian",
	"hr":   "Croatian",
	"sk":   "Slovak",
	"sl":   "Slovenian",
	"et":   "Estonian",
	"lv":   "Latvian",
	"lt":   "Lithuanian",
	"el":   "Greek",
	"th":   "Thai",
	"vi":   "Vietnamese",
	"id":   "Indonesian",
	"ms":   "Malay",
	"tl":   "Filipino",
	"fa":   "Persian",
	"ur":   "Urdu",
	"bn":   "Bengali",
	"ta":   "Tamil",
	"te":   "Telugu",
	"ml":   "Malayalam",
	"kn":   "Kannada",
	"gu":   "Gujarati",
	"pa":   "Punjabi",
	"or":   "Odia",
	"as":   "Assamese",
	"ne":   "Nepali",
	"si":   "Sinhala",
	"my":   "Myanmar",
	"km":   "Khmer",
	"lo":   "Lao",
	"ka":   "Georgian",
	"am":   "Amharic",
	"sw":   "Swahili",
	"zu":   "Zulu",
	"af":   "Afrikaans",
	"sq":   "Albanian",
	"eu":   "Basque",
	"ca":   "Catalan",
	"gl":   "Galician",
	"he":   "Hebrew",
	"is":   "Icelandic",
	"mk":   "Macedonian",
	"mt":   "Maltese",
	"sr":   "Serbian",
	"uk":   "Ukrainian",
	"cy":   "Welsh",
}

// commonLanguageCodes is the short list surfaced in selection UIs.
var commonLanguageCodes = []string{
	"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "ar", "hi",
}

// LanguageName returns the display name for an ISO code. Unknown codes
// render as "Unknown (<code>)".
func LanguageName(code string) string {
	if name, ok := supportedLanguages[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", code)
}

// SupportedLanguages returns a copy of the full code-to-name table.
func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(supportedLanguages))
	for code, name := range supportedLanguages {
		out[code] = name
	}
	return out
}

// CommonLanguages returns the code-to-name table for the most common
// languages, for UI display.
func CommonLanguages() map[string]string {
	out := make(map[string]string, len(commonLanguageCodes))
	for _, code := range commonLanguageCodes {
		if name, ok := supportedLanguages[code]; ok {
			out[code] = name
		}
	}
	return out
}
