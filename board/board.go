// Package board holds the Raspberry Pi 4 robotics board-support bundle: the
// kernel config fragment, the root filesystem overlay and the Buildroot
// directives, and turns them into a materialize.Plan.
package board

import (
	"bytes"
	"embed"
	"fmt"
	"net"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/materialize"
	"github.com/pioneeros/pioneer/types"
)

//go:embed files/*.tmpl
var templateFiles embed.FS

var templates = template.Must(
	template.New("board").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFiles, "files/*.tmpl"),
)

// sysctl defaults, in file order
var defaultSysctl = []Setting{
	{"vm.swappiness", "10"},
	{"vm.dirty_background_ratio", "5"},
	{"vm.dirty_ratio", "10"},
	{"kernel.sched_rt_runtime_us", "-1"},
	{"kernel.panic", "10"},
	{"net.core.rmem_max", "16777216"},
	{"net.core.wmem_max", "16777216"},
	{"net.ipv4.tcp_rmem", "4096 87380 16777216"},
	{"net.ipv4.tcp_wmem", "4096 65536 16777216"},
	{"fs.file-max", "65536"},
}

// Setting is a single sysctl key and value
type Setting struct {
	Key   string
	Value string
}

type templateData struct {
	*types.Config
	Sysctl []Setting
}

// OverlayDir returns the root filesystem overlay directory for cfg
func OverlayDir(cfg *types.Config) string {
	return path.Join(cfg.BoardDir, "overlay")
}

// Validate checks the values rendered into the bundle
func Validate(cfg *types.Config) error {
	if cfg.BoardDir == "" || path.IsAbs(cfg.BoardDir) || strings.HasPrefix(path.Clean(cfg.BoardDir), "..") {
		return fmt.Errorf("board dir %q must be a path inside the Buildroot tree", cfg.BoardDir)
	}
	if cfg.InitScript == "" || strings.ContainsAny(cfg.InitScript, `/\`) {
		return fmt.Errorf("init script name %q must be a plain file name", cfg.InitScript)
	}
	if cfg.KernelFragment == "" || strings.ContainsAny(cfg.KernelFragment, `/\`) {
		return fmt.Errorf("kernel fragment name %q must be a plain file name", cfg.KernelFragment)
	}
	if cfg.Hostname == "" || strings.ContainsAny(cfg.Hostname, " \t\n\"") {
		return fmt.Errorf("invalid hostname %q", cfg.Hostname)
	}

	n := cfg.Network
	if n.Interface == "" {
		return fmt.Errorf("network interface must be set")
	}
	for name, ip := range map[string]string{"address": n.IPAddress, "netmask": n.NetMask, "gateway": n.Gateway} {
		if net.ParseIP(ip).To4() == nil {
			return fmt.Errorf("network %s %q is not an IPv4 address", name, ip)
		}
	}
	for _, ns := range n.NameServers {
		if net.ParseIP(ns) == nil {
			return fmt.Errorf("name server %q is not an IP address", ns)
		}
	}

	w := cfg.Wifi
	if strings.ContainsAny(w.SSID, "\"\n") || strings.ContainsAny(w.PSK, "\"\n") {
		return fmt.Errorf("wifi ssid and psk must not contain quotes or newlines")
	}
	if len(w.SSID) == 0 || len(w.SSID) > 32 {
		return fmt.Errorf("wifi ssid must be 1 to 32 characters")
	}
	if len(w.PSK) < 8 || len(w.PSK) > 63 {
		return fmt.Errorf("wifi psk must be 8 to 63 characters")
	}

	switch cfg.DirectiveMode {
	case types.DirectiveModeMerge, types.DirectiveModeAppend:
	default:
		return fmt.Errorf("directive mode %q: want %q or %q", cfg.DirectiveMode, types.DirectiveModeMerge, types.DirectiveModeAppend)
	}
	return nil
}

// SysctlSettings returns the default tunables with cfg.Sysctl applied:
// known keys take the configured value, new keys follow in sorted order.
func SysctlSettings(cfg *types.Config) []Setting {
	settings := append([]Setting(nil), defaultSysctl...)
	seen := map[string]bool{}
	for i, s := range settings {
		seen[s.Key] = true
		if v, ok := cfg.Sysctl[s.Key]; ok {
			settings[i].Value = v
		}
	}

	var extra []string
	for k := range cfg.Sysctl {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		settings = append(settings, Setting{k, cfg.Sysctl[k]})
	}
	return settings
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %v", name, err)
	}
	return buf.String(), nil
}

// Files renders the five board files: kernel fragment, network interfaces,
// wpa_supplicant.conf, the init script and sysctl.conf.
func Files(cfg *types.Config) ([]materialize.FileSpec, error) {
	data := templateData{Config: cfg, Sysctl: SysctlSettings(cfg)}
	overlay := OverlayDir(cfg)

	entries := []struct {
		template   string
		path       string
		executable bool
	}{
		{"robotics_kernel.fragment.tmpl", path.Join(cfg.BoardDir, cfg.KernelFragment), false},
		{"interfaces.tmpl", path.Join(overlay, "etc/network/interfaces"), false},
		{"wpa_supplicant.conf.tmpl", path.Join(overlay, "etc/wpa_supplicant.conf"), false},
		{"init.tmpl", path.Join(overlay, "etc/init.d", cfg.InitScript), true},
		{"sysctl.conf.tmpl", path.Join(overlay, "etc/sysctl.conf"), false},
	}

	files := make([]materialize.FileSpec, 0, len(entries))
	for _, e := range entries {
		content, err := render(e.template, data)
		if err != nil {
			return nil, err
		}
		files = append(files, materialize.FileSpec{Path: e.path, Content: content, Executable: e.executable})
	}
	return files, nil
}

// Directives returns the Buildroot directives for cfg: the default package
// set followed by cfg.ExtraDirectives, one entry per key.
func Directives(cfg *types.Config) ([]materialize.Directive, error) {
	directives := []materialize.Directive{
		{Key: "BR2_ROOTFS_OVERLAY", Value: quote(OverlayDir(cfg))},
		{Key: "BR2_LINUX_KERNEL_CONFIG_FRAGMENT_FILES", Value: quote(path.Join(cfg.BoardDir, cfg.KernelFragment))},
		{Key: "BR2_TARGET_GENERIC_HOSTNAME", Value: quote(cfg.Hostname)},
		{Key: "BR2_PACKAGE_PYTHON3", Value: "y"},
		{Key: "BR2_PACKAGE_PYTHON_NUMPY", Value: "y"},
		{Key: "BR2_PACKAGE_PYTHON_PYSERIAL", Value: "y"},
		{Key: "BR2_PACKAGE_OPENCV4", Value: "y"},
		{Key: "BR2_PACKAGE_OPENCV4_LIB_IMGPROC", Value: "y"},
		{Key: "BR2_PACKAGE_OPENCV4_LIB_VIDEOIO", Value: "y"},
		{Key: "BR2_PACKAGE_DROPBEAR", Value: "y"},
		{Key: "BR2_PACKAGE_I2C_TOOLS", Value: "y"},
		{Key: "BR2_PACKAGE_HTOP", Value: "y"},
		{Key: "BR2_PACKAGE_NANO", Value: "y"},
		{Key: "BR2_PACKAGE_FILE", Value: "y"},
		{Key: "BR2_PACKAGE_WPA_SUPPLICANT", Value: "y"},
		{Key: "BR2_PACKAGE_RPI_FIRMWARE", Value: "y"},
		{Key: "BR2_TARGET_ROOTFS_EXT2", Value: "y"},
		{Key: "BR2_TARGET_ROOTFS_EXT2_4", Value: "y"},
		{Key: "BR2_TARGET_ROOTFS_EXT2_SIZE", Value: quote("1536M")},
	}

	for _, line := range cfg.ExtraDirectives {
		d, err := materialize.ParseDirective(line)
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return materialize.Dedupe(directives), nil
}

func quote(s string) string {
	return `"` + s + `"`
}

// NewPlan builds the generation plan for cfg: the five board files, the
// defconfig call, the directive step on .config and the olddefconfig call.
func NewPlan(cfg *types.Config) (*materialize.Plan, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	files, err := Files(cfg)
	if err != nil {
		return nil, err
	}
	directives, err := Directives(cfg)
	if err != nil {
		return nil, err
	}

	var steps []materialize.Step
	for _, f := range files {
		steps = append(steps, f)
	}

	if !cfg.SkipMake {
		steps = append(steps, materialize.CommandStep{Executable: cfg.Make, Args: []string{cfg.Defconfig}})
	}

	if cfg.DirectiveMode == types.DirectiveModeAppend {
		steps = append(steps, materialize.AppendSpec{Path: constants.DotConfig, Block: RenderBlock(directives)})
	} else {
		steps = append(steps, materialize.MergeSpec{Path: constants.DotConfig, Directives: directives})
	}

	if !cfg.SkipMake {
		steps = append(steps, materialize.CommandStep{Executable: cfg.Make, Args: []string{"olddefconfig"}})
	}

	return materialize.NewPlan("rpi4-robotics", steps...), nil
}

// BlockHeader opens the directive block appended to .config
const BlockHeader = "# Robotics platform"

// RenderBlock formats the directive block appended to .config. It starts
// with a newline so it never joins an unterminated last line.
func RenderBlock(directives []materialize.Directive) string {
	return "\n" + BlockHeader + "\n" + materialize.RenderDirectives(directives)
}
