package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Load 从YAML文件读取配置
// 功能：在默认配置上叠加YAML文件内容
// 参数：path-配置文件路径，为空时只使用默认值
// 返回：配置对象，文件读取或解析失败时返回错误
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config file load err: %w", err)
	}
	return Parse(file)
}

// Parse 在默认配置上叠加YAML内容（严格模式，未知字段报错）
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config file load err: %w", err)
	}
	return c, nil
}

// Validate 校验配置字段
// 说明：错误信息包含字段名与规则，在任何编译工作开始前调用
func Validate(c Config) error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
