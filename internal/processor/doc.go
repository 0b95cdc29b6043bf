// Package processor coordinates the end-to-end text processing pipeline.
//
// The processor sequences classification, cleaning, chunking, and
// statistics into a single call, so callers hand in raw text plus a
// configuration and get back a complete result.
//
// # Basic Usage
//
//	p, err := processor.New(types.DefaultProcessingConfig())
//	if err != nil {
//	    return err
//	}
//
//	result, err := p.Process(text, "md")
//	if err != nil {
//	    return err
//	}
//
//	fmt.Printf("%d chunks, %d tokens in %.2fs\n",
//	    result.TotalChunks, result.TotalTokens, result.ProcessingTime)
//
// # Pipeline
//
// Each Process call executes four stages:
//
//  1. Classify: map the file extension to code, document, or data
//  2. Clean: normalize the text per content type and cleaning flags
//  3. Chunk: split the cleaned text with the configured strategy
//  4. Aggregate: totals, per-chunk averages, compression ratio
//
// Data flows one direction only; nothing is retried and no stage
// mutates shared state, so a Processor can serve concurrent callers.
//
// # Error Handling
//
// Configuration problems (unknown tokenizer, invalid chunking method,
// custom method without a delimiter) surface from New before any text
// is touched. Process itself fails only when a pipeline stage fails,
// and wraps the cause into a single processing error. Empty input is
// not an error: it produces a result with zero chunks and zeroed
// statistics.
//
// # File Processing
//
// ProcessFile extracts text from a file first (see the extractor
// package) and stamps the result's FileInfo with the source filename,
// detected format, and size:
//
//	result, err := p.ProcessFile("/data/corpus/report.pdf")
package processor
