// Package gitctx finds the files a git change touches so they can be
// reviewed one at a time.
//
// [Repo.StagedFiles] and [Repo.ChangedFiles] list added, copied and modified
// paths; [Repo.StagedContent] reads the index copy of a file so the review
// sees exactly what will be committed. [Reviewable] narrows a file list to
// languages the review service accepts.
package gitctx
