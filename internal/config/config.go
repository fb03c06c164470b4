package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pusula/internal/service/compare"
	"pusula/internal/service/report"
)

// 环境变量
const (
	EnvDataDir        = "PUSULA_DATA_DIR"
	EnvSlackThreshold = "PUSULA_SLACK_THRESHOLD"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Analysis AnalysisConfig `toml:"analysis"`
	Excel    ExcelConfig    `toml:"excel"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	KeepUploads bool   `toml:"keep_uploads"` // 导入后保留上传的原始文件
}

// AnalysisConfig 分析阈值
type AnalysisConfig struct {
	SlackThreshold float64 `toml:"slack_threshold"`
	TopN           int     `toml:"top_n"`
	LookaheadDays  int     `toml:"lookahead_days"`
	SummaryTaskID  string  `toml:"summary_task_id"`
	DueOnly        bool    `toml:"due_only"`
}

// ExcelConfig Excel 读取配置
type ExcelConfig struct {
	SheetName string `toml:"sheet_name"` // 为空时自动识别
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port: 20262,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Analysis: AnalysisConfig{
			SlackThreshold: compare.DefaultSlackThreshold,
			TopN:           compare.DefaultLimit,
			LookaheadDays:  report.DefaultLookaheadDays,
			SummaryTaskID:  "1",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	server, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = server["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	dir, err := GetExeDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	return filepath.Join(exeDirOrDot(), "config.toml")
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(DefaultPath())
}

// LoadConfigFrom 从指定文件加载配置；文件不存在时使用默认值
// 环境变量在文件之后应用
func LoadConfigFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, info, err
	}
	cfg.normalize()
	return cfg, info, nil
}

// LoadConfig 加载配置
func LoadConfig() (*AppConfig, error) {
	cfg, _, err := LoadConfigWithInfo()
	return cfg, err
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv(EnvSlackThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSlackThreshold, err)
		}
		cfg.Analysis.SlackThreshold = f
	}
	return nil
}

func (c *AppConfig) normalize() {
	if c.Analysis.LookaheadDays < 0 {
		c.Analysis.LookaheadDays = 0
	}
	if c.Analysis.SummaryTaskID == "" {
		c.Analysis.SummaryTaskID = "1"
	}
	if c.Data.DataDir == "" {
		c.Data.DataDir = "data"
	}
}

// SaveConfig 保存配置到指定路径
func SaveConfig(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir 数据目录的绝对路径；相对路径以可执行文件目录为基准
func (c *AppConfig) DataDir() string {
	if filepath.IsAbs(c.Data.DataDir) {
		return c.Data.DataDir
	}
	return filepath.Join(exeDirOrDot(), c.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dataDir := cfg.DataDir()
	for _, sub := range []string{"", "uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// GetDataPath 数据目录下的文件路径
func GetDataPath(cfg *AppConfig, subdir, filename string) string {
	return filepath.Join(cfg.DataDir(), subdir, filename)
}

// CompareOptions 基线比较选项
func (c *AppConfig) CompareOptions(now time.Time) compare.Options {
	opts := compare.DefaultOptions(now)
	opts.SlackThreshold = c.Analysis.SlackThreshold
	opts.Limit = c.Analysis.TopN
	opts.DueOnly = c.Analysis.DueOnly
	return opts
}

// ReportOptions 报告视图选项
func (c *AppConfig) ReportOptions(now time.Time) report.Options {
	opts := report.DefaultOptions(now)
	opts.SlackThreshold = c.Analysis.SlackThreshold
	opts.Limit = c.Analysis.TopN
	opts.LookaheadDays = c.Analysis.LookaheadDays
	opts.SummaryTaskID = c.Analysis.SummaryTaskID
	return opts
}
