package config

// Load 把配置节 section 绑定为 T；section 为空时绑定整个配置
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.Bind(section, &t)
	return t, err
}

// LoadStrict 与 Load 相同，但配置中的未知字段视为错误
func LoadStrict[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.BindStrict(section, &t)
	return t, err
}
