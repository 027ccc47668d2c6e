package validate

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const networkInterfaces = "board/raspberrypi/overlay/etc/network/interfaces"

func touch(t *testing.T, fs afero.Fs, path string, size int) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, make([]byte, size), 0644))
}

// sizedFs reports a fixed size for some files so images can be large
// without being allocated
type sizedFs struct {
	afero.Fs
	sizes map[string]int64
}

type sizedInfo struct {
	os.FileInfo
	size int64
}

func (i sizedInfo) Size() int64 { return i.size }

func (f sizedFs) Stat(name string) (os.FileInfo, error) {
	info, err := f.Fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if size, ok := f.sizes[name]; ok {
		return sizedInfo{info, size}, nil
	}
	return info, nil
}

const sdcard = "output/images/sdcard.img"

func withImage(t *testing.T, fs afero.Fs, size int64) afero.Fs {
	touch(t, fs, sdcard, 0)
	return sizedFs{Fs: fs, sizes: map[string]int64{sdcard: size}}
}

func completeTree(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"output/images/Image",
		"output/images/bcm2711-rpi-4-b.dtb",
		"output/images/rootfs.ext4",
		"output/images/boot.vfat",
		"output/images/rpi-firmware/start4.elf",
		"output/images/rpi-firmware/fixup4.dat",
		"output/target/usr/bin/python3",
		"output/target/usr/lib/libopencv_core.so.4.8.0",
		"output/target/usr/lib/libopencv_imgproc.so.408",
		"output/target/usr/sbin/dropbear",
		"output/target/etc/init.d/S50dropbear",
		"output/target/usr/sbin/i2cdetect",
		"output/target/lib/modules/6.1.61-v8/modules.dep",
		"output/target/etc/init.d/S99robotics",
		"output/target/usr/bin/htop",
		"output/target/usr/bin/nano",
		"output/host/bin/aarch64-buildroot-linux-gnu-gcc",
	} {
		touch(t, fs, p, 16)
	}
	require.NoError(t, afero.WriteFile(fs, "output/target/etc/wpa_supplicant.conf", []byte("network={\n    ssid=\"lab\"\n}\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, networkInterfaces, []byte("auto eth0\niface eth0 inet static\n    address 192.168.1.10\n"), 0644))
	return withImage(t, fs, 2<<30)
}

func byName(r *Report) map[string]Result {
	m := map[string]Result{}
	for _, res := range r.Tests {
		m[res.Name] = res
	}
	return m
}

func TestRunOnCompleteTree(t *testing.T) {
	fs := completeTree(t)
	suite := NewSuite(fs, "/srv/buildroot", types.NewConfig())
	suite.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	var seen []string
	report := suite.Run(func(r Result) { seen = append(seen, r.Name) })

	assert.Len(t, report.Tests, 17)
	assert.Equal(t, seen[0], "Image File")
	assert.Equal(t, seen[16], "Toolchain")
	for _, res := range report.Tests {
		assert.Equal(t, Pass, res.Status, res.Name+": "+res.Message)
	}
	assert.Equal(t, Summary{Passed: 17}, report.Summary)
	assert.Equal(t, Ready, report.Verdict)
	assert.Equal(t, "Size: 2.0 GiB", byName(report)["Image File"].Details)
	assert.Equal(t, "Found 2 core libraries", byName(report)["OpenCV4"].Message)
}

func TestRunOnEmptyTree(t *testing.T) {
	report := NewSuite(afero.NewMemMapFs(), "/", types.NewConfig()).Run(nil)
	results := byName(report)

	for _, name := range []string{"Image File", "Kernel Image", "Device Tree", "Root Filesystem", "Boot Partition", "Python3", "SSH Server", "Network Config", "RPi Firmware"} {
		assert.Equal(t, Fail, results[name].Status, name)
	}
	for _, name := range []string{"OpenCV4", "I2C Tools", "WiFi Config", "Custom Overlay", "Kernel Modules", "System Utilities", "Image Size", "Toolchain"} {
		assert.Equal(t, Warn, results[name].Status, name)
	}
	assert.Equal(t, Summary{Failed: 9, Warnings: 8}, report.Summary)
	assert.Equal(t, NotReady, report.Verdict)
}

func TestChecks(t *testing.T) {
	t.Run("default wifi credentials warn", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "output/target/etc/wpa_supplicant.conf", []byte(`ssid="YOUR_SSID"`), 0644))

		res := checkWifi(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, Warn, res.Status)
		assert.Contains(t, res.Message, "Default credentials")
	})

	t.Run("network config without the configured address warns", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, networkInterfaces, []byte("auto eth0\niface eth0 inet dhcp\n"), 0644))

		res := checkNetwork(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, Warn, res.Status)
	})

	t.Run("network config follows the board dir", func(t *testing.T) {
		cfg := types.NewConfig()
		cfg.BoardDir = "board/rover"
		cfg.Network.IPAddress = "10.0.0.7"
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "board/rover/overlay/etc/network/interfaces", []byte("iface eth0 inet static\n    address 10.0.0.7\n"), 0644))

		res := checkNetwork(NewSuite(fs, "/", cfg))

		assert.Equal(t, Pass, res.Status)
		assert.Equal(t, "Static IP configured (10.0.0.7)", res.Message)
	})

	t.Run("one utility is not enough", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		touch(t, fs, "output/target/usr/bin/nano", 1)

		res := checkUtilities(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, Warn, res.Status)
		assert.Equal(t, "Only 1/3 tools found", res.Message)
	})

	t.Run("partial firmware warns", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		touch(t, fs, "output/images/rpi-firmware/start4.elf", 1)

		res := checkFirmware(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, Warn, res.Status)
		assert.Equal(t, "Found 1/2 files", res.Message)
	})

	t.Run("empty modules dir warns", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("output/target/lib/modules", 0755))

		res := checkKernelModules(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, Warn, res.Status)
		assert.Equal(t, "Modules directory empty", res.Message)
	})

	t.Run("overlay check follows the init script name", func(t *testing.T) {
		cfg := types.NewConfig()
		cfg.InitScript = "S90rover"
		fs := afero.NewMemMapFs()
		touch(t, fs, "output/target/etc/init.d/S90rover", 1)

		res := checkOverlay(NewSuite(fs, "/", cfg))

		assert.Equal(t, Pass, res.Status)
	})
}

func TestCheckImageSize(t *testing.T) {
	tests := []struct {
		size   int64
		status Status
	}{
		{1 << 30, Warn},
		{3 << 29, Pass},
		{4 << 30, Pass},
		{5 << 30, Warn},
	}

	for _, tt := range tests {
		fs := withImage(t, afero.NewMemMapFs(), tt.size)

		res := checkImageSize(NewSuite(fs, "/", types.NewConfig()))

		assert.Equal(t, tt.status, res.Status, res.Message)
	}
}

func TestAssess(t *testing.T) {
	tests := []struct {
		summary Summary
		want    Verdict
	}{
		{Summary{Passed: 17}, Ready},
		{Summary{Passed: 12, Warnings: 5}, Ready},
		{Summary{Passed: 11, Warnings: 3}, Conditional},
		{Summary{Passed: 13, Failed: 2, Warnings: 2}, Conditional},
		{Summary{Passed: 11, Failed: 2, Warnings: 4}, NotReady},
		{Summary{Passed: 14, Failed: 3}, NotReady},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Assess(tt.summary), "%+v", tt.summary)
	}
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	suite := NewSuite(fs, "/srv/buildroot", types.NewConfig())

	report := suite.Run(nil)
	require.NoError(t, suite.Save(report))

	data, err := afero.ReadFile(fs, "validation_report.json")
	require.NoError(t, err)

	var saved struct {
		Root    string   `json:"root"`
		Tests   []Result `json:"tests"`
		Summary Summary  `json:"summary"`
		Verdict Verdict  `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "/srv/buildroot", saved.Root)
	assert.Len(t, saved.Tests, 17)
	assert.Equal(t, report.Summary, saved.Summary)
	assert.Equal(t, NotReady, saved.Verdict)
}
