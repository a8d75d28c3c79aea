package docker

import (
	"path"
	"strconv"

	"github.com/sakif/tdd-playground/internal/model"
)

// MountPoint is where the workspace appears inside the container.
const MountPoint = "/code"

// BuildCommand returns the full argv (binary first) that runs entry in an isolated
// container. It is pure: the same inputs always give the same command.
//
// The flags are fixed by the sandbox images:
//
//	<engine> run --rm --network=none --memory=100m --cpus=0.5 --pids-limit=50
//	  -v <workspace>:/code:ro <repo>:<language> --entrypoint /code/<entry>
//
// The trailing `--entrypoint` comes after the image, so it is an argument for the
// in-image runner, not the engine's own --entrypoint flag.
func BuildCommand(binary string, cfg Config, workspace string, entry model.CodeFile) []string {
	return []string{
		binary, "run",
		"--rm",
		"--network=none",
		"--memory=" + cfg.Memory,
		"--cpus=" + cfg.CPUs,
		"--pids-limit=" + strconv.Itoa(cfg.PidsLimit),
		"-v", workspace + ":" + MountPoint + ":ro",
		Image(cfg.ImageRepo, entry.Language),
		"--entrypoint", EntryPath(entry),
	}
}

// Image returns the sandbox image reference for a language tag.
func Image(repo, language string) string {
	return repo + ":" + language
}

// EntryPath returns the in-container path of the entry file.
func EntryPath(entry model.CodeFile) string {
	return path.Join(MountPoint, entry.Name)
}
