package main

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// DefaultLocale is the fallback for every other locale.
const DefaultLocale = "english"

// Message keys used by the report.
const (
	msgArrayType         = "ARRAY_TYPE"
	msgArraySize         = "ARRAY_SIZE"
	msgAttrs             = "ATTRS"
	msgAttrName          = "ATTR_NAME"
	msgComment           = "COMMENT"
	msgColumns           = "COLUMNS"
	msgColumnName        = "COLUMN_NAME"
	msgColumnLength      = "COLUMN_LENGTH"
	msgColumnLengthSem   = "COLUMN_LENGTH_SEMANTICS"
	msgColumnType        = "COLUMN_TYPE"
	msgColumnPrecision   = "COLUMN_PRECISION"
	msgColumnScale       = "COLUMN_SCALE"
	msgColumnDefault     = "COLUMN_DEFAULT"
	msgColumnPK          = "COLUMN_PK"
	msgColumnFK          = "COLUMN_FK"
	msgColumnCheck       = "COLUMN_CHECK"
	msgColumnNullable    = "COLUMN_NULLABLE"
	msgExecTime          = "EXEC_TIME"
	msgFalse             = "FALSE"
	msgGeneratedAs       = "GENERATED_AS"
	msgGenerator         = "GENERATOR"
	msgIndexes           = "INDEXES"
	msgIsPartitioned     = "IS_PARTITIONED"
	msgGatherBegin       = "METADATA_GATHER_BEGIN"
	msgGatherEnd         = "METADATA_GATHER_END"
	msgProcessBegin      = "METADATA_PROCESS_BEGIN"
	msgProcessEnd        = "METADATA_PROCESS_END"
	msgMethods           = "METHODS"
	msgQueue             = "QUEUE"
	msgQueues            = "QUEUES"
	msgQueueType         = "QUEUE_TYPE"
	msgReportBegin       = "REPORT_PROCESS_BEGIN"
	msgReportEnd         = "REPORT_PROCESS_END"
	msgSchema            = "SCHEMA"
	msgTable             = "TABLE"
	msgTableCategory     = "TABLE_CATEGORY"
	msgTableOrView       = "TABLE_OR_VIEW"
	msgTableTypeHeap     = "TABLE_TYPE_HEAP"
	msgTableTypeIOT      = "TABLE_TYPE_IOT"
	msgTableTypeTemp     = "TABLE_TYPE_TEMP"
	msgTableTypeTable    = "TABLE_TYPE_T"
	msgTableTypeView     = "TABLE_TYPE_W"
	msgTables            = "TABLES"
	msgTriggerName       = "TRIGGER_NAME"
	msgTriggerAction     = "TRIGGER_ACTION"
	msgTriggerEvent      = "TRIGGER_EVENT"
	msgTriggers          = "TRIGGERS"
	msgTrue              = "TRUE"
	msgTypes             = "TYPES"
	msgType              = "TYPE"
	msgUnbounded         = "UNBOUNDED"
	msgUniqueConstraints = "UNIQUE_CONSTRAINTS"
)

//go:embed locales/*.lng
var embeddedLocales embed.FS

// Localizer translates message keys for one locale, falling back once to
// DefaultLocale.
type Localizer struct {
	locale   string
	messages map[string]string
	fallback *Localizer
}

// Locale returns the locale name.
func (l *Localizer) Locale() string { return l.locale }

// Message returns the text for key.
func (l *Localizer) Message(key string) (string, error) {
	if msg, ok := l.messages[key]; ok {
		return msg, nil
	}
	if l.fallback != nil {
		if msg, ok := l.fallback.messages[key]; ok {
			return msg, nil
		}
	}
	return "", newErrorf(KindMessageNotFound,
		"message %s not found in locale %s (default locale %s)", key, l.locale, DefaultLocale)
}

// Bool returns the localized TRUE or FALSE label.
func (l *Localizer) Bool(v bool) (string, error) {
	if v {
		return l.Message(msgTrue)
	}
	return l.Message(msgFalse)
}

// localeFS returns the message catalog file systems to search, in order:
// dir (when set) and then the embedded catalogs.
func localeFS(dir string) []fs.FS {
	var out []fs.FS
	if dir != "" {
		out = append(out, os.DirFS(dir))
	}
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err == nil {
		out = append(out, sub)
	}
	return out
}

// LoadLocalizer loads locale name from the first file system that has it,
// and DefaultLocale as its fallback.
func LoadLocalizer(sources []fs.FS, name string) (*Localizer, error) {
	msgs, err := loadMessages(sources, name)
	if err != nil {
		return nil, err
	}
	l := &Localizer{locale: name, messages: msgs}
	if name == DefaultLocale {
		return l, nil
	}
	def, err := loadMessages(sources, DefaultLocale)
	if err != nil {
		return nil, err
	}
	l.fallback = &Localizer{locale: DefaultLocale, messages: def}
	return l, nil
}

// loadMessages reads <name>.lng (JSON) or <name>.yml / <name>.yaml.
func loadMessages(sources []fs.FS, name string) (map[string]string, error) {
	if name == "" || path.Base(name) != name {
		return nil, newErrorf(KindConfig, "invalid locale name %q", name)
	}
	for _, fsys := range sources {
		for _, ext := range []string{".lng", ".yml", ".yaml"} {
			data, err := fs.ReadFile(fsys, name+ext)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, wrapErrorf(err, KindConfig, "read locale %s", name)
			}
			msgs := make(map[string]string)
			if ext == ".lng" {
				err = json.Unmarshal(data, &msgs)
			} else {
				err = yaml.Unmarshal(data, &msgs)
			}
			if err != nil {
				return nil, wrapErrorf(err, KindConfig, "parse locale %s%s", name, ext)
			}
			return msgs, nil
		}
	}
	return nil, newErrorf(KindConfig, "locale %s not found", name)
}
