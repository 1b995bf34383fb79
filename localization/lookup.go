package localization

// SupportedLocales returns the configured locales in registration order.
func (r *Resolver) SupportedLocales() []Locale {
	return r.locales.all()
}

func (r *Resolver) SupportedLocale(key string) (Locale, bool) {
	return r.locales.get(key)
}

func (r *Resolver) HasSupportedLocale(key string) bool {
	return r.locales.has(key)
}

func (r *Resolver) TLDForLocale(key string) string {
	l, _ := r.locales.get(key)
	return l.TLD
}

func (r *Resolver) NameForLocale(key string) string {
	l, _ := r.locales.get(key)
	return l.Name
}

func (r *Resolver) NativeForLocale(key string) string {
	l, _ := r.locales.get(key)
	return l.Native
}

func (r *Resolver) ScriptForLocale(key string) string {
	l, _ := r.locales.get(key)
	return l.Script
}

func (r *Resolver) DirForLocale(key string) string {
	l, _ := r.locales.get(key)
	return l.Dir
}

// LocaleByTLD returns the first registered locale served from tld.
func (r *Resolver) LocaleByTLD(tld string) (Locale, bool) {
	if tld == "" {
		return Locale{}, false
	}
	for _, key := range r.locales.keys {
		if l := r.locales.locales[key]; l.TLD == tld {
			return l, true
		}
	}
	return Locale{}, false
}

func (r *Resolver) LocaleNameByTLD(tld string) (string, bool) {
	l, ok := r.LocaleByTLD(tld)
	return l.Key, ok
}
