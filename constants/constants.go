package constants

const (
	// Version of the pioneer CLI
	Version = "0.3.0"

	// BuildrootDirEnv names the environment variable holding the Buildroot tree location
	BuildrootDirEnv = "BUILDROOT_DIR"
	// DefaultConfigEnv names the environment variable pointing to a default config file
	DefaultConfigEnv = "PIONEER_DEFAULT_CONFIG"
	// RCFile is the per-user default config file under the home directory
	RCFile = ".pioneerrc"

	// DefaultBuildrootDir is used when neither flag, config nor environment set a root
	DefaultBuildrootDir = "/mnt/data/buildroot"
	// DefaultBoardDir is the board-support tree relative to the Buildroot root
	DefaultBoardDir = "board/raspberrypi"
	// DefaultDefconfig is the defconfig target passed to make
	DefaultDefconfig = "raspberrypi4_64_defconfig"
	// DefaultMake is the build configuration driver
	DefaultMake = "make"
	// DefaultInitScript is the overlay startup script name under etc/init.d
	DefaultInitScript = "S99robotics"

	// DotConfig is the generated Buildroot configuration at the root of the tree
	DotConfig = ".config"
	// ValidationReport is written at the root of the tree by the validation suite
	ValidationReport = "validation_report.json"
)
