package localization

// Locale is the configuration of a single supported locale.
type Locale struct {
	// Key identifies the locale, e.g. "en" or "nl-BE".
	Key string `json:"key"              yaml:"key"`
	// TLD is the domain suffix the locale is served from, e.g. ".nl" or ".co.uk".
	TLD    string `json:"tld,omitempty"    yaml:"tld,omitempty"`
	Name   string `json:"name,omitempty"   yaml:"name,omitempty"`
	Native string `json:"native,omitempty" yaml:"native,omitempty"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
	Dir    string `json:"dir,omitempty"    yaml:"dir,omitempty"`

	// Extra holds any additional locale specific settings.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Setting returns an extra setting of the locale.
func (l Locale) Setting(name string) (any, bool) {
	v, ok := l.Extra[name]
	return v, ok
}

// localeSet keeps locales addressable by key while remembering the order
// they were registered in.
type localeSet struct {
	keys    []string
	locales map[string]Locale
}

func newLocaleSet(capacity int) *localeSet {
	return &localeSet{
		keys:    make([]string, 0, capacity),
		locales: make(map[string]Locale, capacity),
	}
}

// add registers the locale, a repeated key replaces the configuration in place.
func (ls *localeSet) add(l Locale) {
	if _, ok := ls.locales[l.Key]; !ok {
		ls.keys = append(ls.keys, l.Key)
	}
	ls.locales[l.Key] = l
}

func (ls *localeSet) get(key string) (Locale, bool) {
	l, ok := ls.locales[key]
	return l, ok
}

func (ls *localeSet) has(key string) bool {
	_, ok := ls.locales[key]
	return ok
}

func (ls *localeSet) all() []Locale {
	out := make([]Locale, 0, len(ls.keys))
	for _, k := range ls.keys {
		out = append(out, ls.locales[k])
	}
	return out
}
