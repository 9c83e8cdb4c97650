package array

// InsertFile assigns parity positions to every block of file on disk, then
// links it into the disk's file list and by-inode set (spec §4.2
// scan_file_insert).
//
// Starting at FirstFreeBlock, the table is swept forward, skipping occupied
// cells, growing it by one slot whenever the sweep runs off the end. This
// keeps insertions compact after a long run of removals while staying
// amortised-linear across one scan, since the hint only ever advances.
func (d *Disk) InsertFile(s *State, file *File) {
	file.fileID = d.nextFileID
	d.nextFileID++
	d.arena[file.fileID] = file

	pos := d.FirstFreeBlock
	lastUsed := pos

	for i := range file.Blocks {
		for int(pos) < len(d.BlockArr) && d.BlockArr[pos] != nil {
			pos++
		}
		if int(pos) >= len(d.BlockArr) {
			d.BlockArr = append(d.BlockArr, nil)
		}
		file.Blocks[i].ParityPos = pos
		d.BlockArr[pos] = &blockOwner{fileID: file.fileID, blockIdx: i}
		d.MarkDirty(pos)
		lastUsed = pos
		pos++
	}

	if len(file.Blocks) > 0 {
		d.FirstFreeBlock = lastUsed + 1
	}

	d.filesByInode[file.Inode] = file
	d.Files = append(d.Files, file)

	s.NeedWrite = true
}

// RemoveFile releases every parity position file holds on disk d, clearing
// the table cell and — because the block that used to occupy that column
// is gone — invalidating has-parity on whatever block any *other* disk in
// the array currently holds at the same position (spec §4.2
// scan_file_remove, invariant I6). file is then unlinked from the disk's
// file list and by-inode set.
func (d *Disk) RemoveFile(s *State, file *File) {
	for _, block := range file.Blocks {
		pos := block.ParityPos
		if pos < d.FirstFreeBlock {
			d.FirstFreeBlock = pos
		}
		if int(pos) < len(d.BlockArr) {
			d.BlockArr[pos] = nil
		}

		for _, other := range s.Disks {
			if other == d {
				continue
			}
			if f, idx, ok := other.BlockOwner(pos); ok {
				f.Blocks[idx].HasParity = false
				other.MarkDirty(pos)
			}
		}
	}

	delete(d.filesByInode, file.Inode)
	delete(d.arena, file.fileID)
	d.Files = removeFile(d.Files, file)

	s.NeedWrite = true
}

func removeFile(files []*File, target *File) []*File {
	for i, f := range files {
		if f == target {
			return append(files[:i], files[i+1:]...)
		}
	}
	return files
}

// InsertLink links a new symlink into the disk's list and by-path set.
func (d *Disk) InsertLink(s *State, link *Symlink) {
	d.Links = append(d.Links, link)
	d.linksByPath[link.SubPath] = link
	s.NeedWrite = true
}

// RemoveLink unlinks a symlink from the disk's list and by-path set. Unlike
// a file, a symlink owns no blocks, so no allocation-table work is needed.
func (d *Disk) RemoveLink(s *State, link *Symlink) {
	delete(d.linksByPath, link.SubPath)
	for i, l := range d.Links {
		if l == link {
			d.Links = append(d.Links[:i], d.Links[i+1:]...)
			break
		}
	}
	s.NeedWrite = true
}
