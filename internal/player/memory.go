package player

import (
	"image"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/mem"
)

// cacheFootprint estimates the bytes held by a full cache window: every
// image once as a texture, plus a decoded copy in flight per slot.
func cacheFootprint(extent int, size image.Point) uint64 {
	images := uint64(2*max(extent, 0) + 1)
	perImage := uint64(max(size.X, 0)) * uint64(max(size.Y, 0)) * 4
	return 2 * images * perImage
}

// checkMemory warns when the cache window would take more than half of the
// available memory.
func checkMemory(extent int, size image.Point) {
	need := cacheFootprint(extent, size)

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debugf("Cannot read system memory: %v", err)
		return
	}

	log.Debugf("Cache needs about %d MiB, %d MiB available", need>>20, vm.Available>>20)
	if need > vm.Available/2 {
		log.Warnf("cache_extent %d needs about %d MiB at %vx%v, only %d MiB available",
			extent, need>>20, size.X, size.Y, vm.Available>>20)
	}
}
