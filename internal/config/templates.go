package config

// DefaultConfigTemplate is the documented configuration written by
// `siteaudit init`
const DefaultConfigTemplate = `# siteaudit configuration
# All values shown are the defaults; delete anything you don't need to change.

normalize:
  # Parallel normalization workers. 0 means one per CPU.
  jobs: 0

validate:
  # "tolerant" downgrades validation problems to warnings so partial crawl
  # data still produces a report. "fail-fast" aborts before emission instead.
  policy: tolerant

  # Categories that must be present on every tested page.
  # Available: accessibility, performance, seo, content_weight, mobile_friendliness
  required: []

output:
  # Report formats to emit: json, yaml, csv, markdown, html
  formats:
    - html

  # Directory where report artifacts are written.
  directory: reports

  # Indent structured output for human readers.
  pretty: true

html:
  # Expand per-page issue lists in the hypertext report.
  include_page_detail: true

  # Render the certificate badge.
  badges: true
`
