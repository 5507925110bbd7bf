// Package annotate turns diff-eligible findings into line-anchored review
// comments and posts them in bounded chunks. Posting is strictly sequential
// with a fixed inter-chunk delay; rate-limit errors are retried with
// exponential backoff and failure is isolated per chunk, never fatal to the
// run.
package annotate
