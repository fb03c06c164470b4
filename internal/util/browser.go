package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// browserLaunchers 各平台依次尝试的打开方式
var browserLaunchers = map[string][][]string{
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}, {"explorer"}},
	"darwin":  {{"open"}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"google-chrome"}, {"firefox"}},
}

// OpenBrowser 按平台候选列表打开地址，全部失败时返回第一个错误
func OpenBrowser(url string) error {
	launchers, ok := browserLaunchers[runtime.GOOS]
	if !ok {
		launchers = browserLaunchers["linux"]
	}

	var first error
	for _, l := range launchers {
		args := append(append([]string(nil), l[1:]...), url)
		err := exec.Command(l[0], args...).Start()
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = errors.New("no browser launcher")
	}
	return first
}
