package array

// Restore rebuilds a disk's indexes and allocation table from a persisted
// file/link list and first-free-block hint: the content store's Load path
// uses this instead of replaying InsertFile/InsertLink, since positions are
// already assigned and must be restored exactly, not reallocated.
func (d *Disk) Restore(files []*File, links []*Symlink, firstFreeBlock ParityPos) {
	d.Files = files
	d.filesByInode = make(map[uint64]*File, len(files))
	d.arena = make(map[int64]*File, len(files))
	d.nextFileID = 0
	d.BlockArr = nil
	d.dirty = newBitset()

	for _, f := range files {
		f.fileID = d.nextFileID
		d.nextFileID++
		d.arena[f.fileID] = f
		d.filesByInode[f.Inode] = f

		for i, b := range f.Blocks {
			pos := int(b.ParityPos)
			if pos >= len(d.BlockArr) {
				grown := make([]*blockOwner, pos+1)
				copy(grown, d.BlockArr)
				d.BlockArr = grown
			}
			d.BlockArr[pos] = &blockOwner{fileID: f.fileID, blockIdx: i}
			if !b.HasParity {
				d.dirty.setDirty(pos)
			}
		}
	}

	d.Links = links
	d.linksByPath = make(map[string]*Symlink, len(links))
	for _, l := range links {
		d.linksByPath[l.SubPath] = l
	}

	d.FirstFreeBlock = firstFreeBlock
}
