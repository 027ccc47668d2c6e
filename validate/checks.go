package validate

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

const (
	imagesDir = "output/images"
	targetDir = "output/target"
	hostDir   = "output/host"

	gib = 1 << 30
)

func (s *Suite) stat(p string) (os.FileInfo, bool) {
	info, err := s.fs.Stat(p)
	if err != nil {
		return nil, false
	}
	return info, true
}

func (s *Suite) exists(p string) bool {
	_, ok := s.stat(p)
	return ok
}

// countExisting returns how many of paths exist
func (s *Suite) countExisting(paths ...string) int {
	n := 0
	for _, p := range paths {
		if s.exists(p) {
			n++
		}
	}
	return n
}

func sizeDetails(info os.FileInfo) string {
	return "Size: " + humanize.IBytes(uint64(info.Size()))
}

func checkImage(s *Suite) Result {
	p := path.Join(imagesDir, "sdcard.img")
	if info, ok := s.stat(p); ok {
		return Result{Status: Pass, Message: "Found at " + p, Details: sizeDetails(info)}
	}
	return Result{Status: Fail, Message: "sdcard.img not found", Details: "Expected at " + p}
}

func checkKernel(s *Suite) Result {
	if info, ok := s.stat(path.Join(imagesDir, "Image")); ok {
		return Result{Status: Pass, Message: "Linux kernel found", Details: sizeDetails(info)}
	}
	return Result{Status: Fail, Message: "Kernel not found"}
}

func checkDeviceTree(s *Suite) Result {
	if s.exists(path.Join(imagesDir, "bcm2711-rpi-4-b.dtb")) {
		return Result{Status: Pass, Message: "BCM2711 DTB found"}
	}
	return Result{Status: Fail, Message: "DTB for RPi4 not found"}
}

func checkRootfs(s *Suite) Result {
	if info, ok := s.stat(path.Join(imagesDir, "rootfs.ext4")); ok {
		return Result{Status: Pass, Message: "ext4 rootfs found", Details: sizeDetails(info)}
	}
	return Result{Status: Fail, Message: "rootfs.ext4 not found"}
}

func checkBootPartition(s *Suite) Result {
	if s.exists(path.Join(imagesDir, "boot.vfat")) {
		return Result{Status: Pass, Message: "boot.vfat created"}
	}
	return Result{Status: Fail, Message: "boot.vfat not found"}
}

func checkPython(s *Suite) Result {
	paths := []string{
		path.Join(targetDir, "usr/bin/python3"),
		path.Join(targetDir, "usr/lib/python3.11"),
	}
	if n := s.countExisting(paths...); n > 0 {
		return Result{Status: Pass, Message: fmt.Sprintf("Found %d/%d components", n, len(paths))}
	}
	return Result{Status: Fail, Message: "Python3 not found in rootfs"}
}

func checkOpenCV(s *Suite) Result {
	libDir := path.Join(targetDir, "usr/lib")
	if ok, _ := afero.DirExists(s.fs, libDir); !ok {
		return Result{Status: Warn, Message: "Cannot verify (lib dir not accessible)"}
	}

	wanted := []string{"libopencv_core.so", "libopencv_imgproc.so"}
	found := map[string]bool{}
	afero.Walk(s.fs, libDir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		for _, w := range wanted {
			if strings.HasPrefix(info.Name(), w) {
				found[w] = true
			}
		}
		return nil
	})

	if len(found) > 0 {
		return Result{Status: Pass, Message: fmt.Sprintf("Found %d core libraries", len(found))}
	}
	return Result{Status: Warn, Message: "OpenCV libraries not confirmed"}
}

func checkNetwork(s *Suite) Result {
	p := path.Join(s.cfg.BoardDir, "overlay/etc/network/interfaces")
	content, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return Result{Status: Fail, Message: "Network interfaces file missing"}
	}

	ip := s.cfg.Network.IPAddress
	if strings.Contains(string(content), ip) && strings.Contains(string(content), s.cfg.Network.Interface) {
		return Result{Status: Pass, Message: fmt.Sprintf("Static IP configured (%s)", ip)}
	}
	return Result{Status: Warn, Message: "Config exists but may be incomplete"}
}

func checkSSH(s *Suite) Result {
	paths := []string{
		path.Join(targetDir, "usr/sbin/dropbear"),
		path.Join(targetDir, "etc/init.d/S50dropbear"),
	}
	if n := s.countExisting(paths...); n > 0 {
		return Result{Status: Pass, Message: fmt.Sprintf("Dropbear found (%d/%d files)", n, len(paths))}
	}
	return Result{Status: Fail, Message: "Dropbear not found"}
}

func checkI2C(s *Suite) Result {
	if s.exists(path.Join(targetDir, "usr/sbin/i2cdetect")) {
		return Result{Status: Pass, Message: "i2cdetect found"}
	}
	return Result{Status: Warn, Message: "i2c-tools not confirmed"}
}

func checkKernelModules(s *Suite) Result {
	dir := path.Join(targetDir, "lib/modules")
	if ok, _ := afero.DirExists(s.fs, dir); !ok {
		return Result{Status: Warn, Message: "Cannot verify modules"}
	}
	if empty, err := afero.IsEmpty(s.fs, dir); err == nil && !empty {
		return Result{Status: Pass, Message: "Found modules directory"}
	}
	return Result{Status: Warn, Message: "Modules directory empty"}
}

func checkOverlay(s *Suite) Result {
	if s.exists(path.Join(targetDir, "etc/init.d", s.cfg.InitScript)) {
		return Result{Status: Pass, Message: "Robotics startup script present"}
	}
	return Result{Status: Warn, Message: "Startup script not found"}
}

func checkWifi(s *Suite) Result {
	content, err := afero.ReadFile(s.fs, path.Join(targetDir, "etc/wpa_supplicant.conf"))
	if err != nil {
		return Result{Status: Warn, Message: "wpa_supplicant.conf not found"}
	}
	if strings.Contains(string(content), "YOUR_SSID") {
		return Result{Status: Warn, Message: "Default credentials not changed"}
	}
	return Result{Status: Pass, Message: "WiFi credentials configured"}
}

func checkUtilities(s *Suite) Result {
	utils := []string{"htop", "nano", "file"}
	n := 0
	for _, u := range utils {
		if s.exists(path.Join(targetDir, "usr/bin", u)) {
			n++
		}
	}
	if n >= 2 {
		return Result{Status: Pass, Message: fmt.Sprintf("Found %d/%d tools", n, len(utils))}
	}
	return Result{Status: Warn, Message: fmt.Sprintf("Only %d/%d tools found", n, len(utils))}
}

func checkFirmware(s *Suite) Result {
	dir := path.Join(imagesDir, "rpi-firmware")
	if ok, _ := afero.DirExists(s.fs, dir); !ok {
		return Result{Status: Fail, Message: "Firmware directory not found"}
	}

	files := []string{"start4.elf", "fixup4.dat"}
	n := 0
	for _, f := range files {
		if s.exists(path.Join(dir, f)) {
			n++
		}
	}
	if n == len(files) {
		return Result{Status: Pass, Message: "All firmware files present"}
	}
	return Result{Status: Warn, Message: fmt.Sprintf("Found %d/%d files", n, len(files))}
}

func checkImageSize(s *Suite) Result {
	info, ok := s.stat(path.Join(imagesDir, "sdcard.img"))
	if !ok {
		return Result{Status: Warn, Message: "Cannot check size (sdcard.img not found)"}
	}

	size := float64(info.Size()) / gib
	switch {
	case size < 1.5:
		return Result{Status: Warn, Message: fmt.Sprintf("Smaller than expected (%.2f GB)", size)}
	case size > 4:
		return Result{Status: Warn, Message: fmt.Sprintf("Larger than expected (%.2f GB)", size)}
	}
	return Result{Status: Pass, Message: fmt.Sprintf("Size OK (%.2f GB)", size)}
}

func checkToolchain(s *Suite) Result {
	if s.exists(path.Join(hostDir, "bin/aarch64-buildroot-linux-gnu-gcc")) {
		return Result{Status: Pass, Message: "Cross-compiler present"}
	}
	return Result{Status: Warn, Message: "Cross-compiler not found"}
}
