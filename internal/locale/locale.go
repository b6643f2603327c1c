// Package locale holds every user-facing string of the intake page.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a message. The English text doubles as the key.
type Key string

const (
	InvalidImage = Key("Please upload a valid image file (PNG, JPG, GIF)")

	StatusUploading  = Key("Uploading file...")
	StatusExtracting = Key("Extracting record information...")
	StatusFinalizing = Key("Analysis complete, generating suggestions...")

	ServerError      = Key("Server response error")
	ProcessingFailed = Key("Processing failed")
	UploadFailed     = Key("Error processing file: %s")

	NoText            = Key("Unable to extract text")
	NoSummary         = Key("Unable to generate summary")
	NoAnalysis        = Key("Unable to generate analysis")
	NoRecommendations = Key("No specific recommendations at this time")
	NoLifestyleAdvice = Key("Unable to generate lifestyle advice")
	DefaultDisclaimer = Key("This advice is for reference only and does not constitute a medical diagnosis. Please consult a professional physician for an accurate diagnosis.")
)

var supported = []language.Tag{language.English, language.SimplifiedChinese}

var chinese = map[Key]string{
	InvalidImage:      "请上传有效的图片文件（PNG、JPG、GIF）",
	StatusUploading:   "正在上传文件...",
	StatusExtracting:  "正在提取病历信息...",
	StatusFinalizing:  "分析完成，正在生成建议...",
	ServerError:       "服务器响应错误",
	ProcessingFailed:  "处理失败",
	UploadFailed:      "处理文件时出错: %s",
	NoText:            "无法提取文本",
	NoSummary:         "无法生成总结",
	NoAnalysis:        "无法生成分析",
	NoRecommendations: "暂无具体建议",
	NoLifestyleAdvice: "无法生成生活方式建议",
	DefaultDisclaimer: "本建议仅供参考，不构成医疗诊断，请咨询专业医生获取准确诊断",
}

var builder = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range chinese {
		if err := b.SetString(language.SimplifiedChinese, string(key), msg); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, string(key), string(key)); err != nil {
			panic(err)
		}
	}
	return b
}

// Printer renders keys in one language.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Printer for lang (a BCP 47 tag such as "en" or "zh-CN").
// Unknown or malformed tags fall back to English.
func New(lang string) *Printer {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Printer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

func (p *Printer) Language() language.Tag {
	return p.tag
}

func (p *Printer) Text(key Key, args ...any) string {
	return p.printer.Sprintf(string(key), args...)
}
