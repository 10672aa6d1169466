// Package help carries the quickstart text printed by the quickstart
// command, kept as YAML so agents and scripts can parse it.
package help

const ColdstartYAML = `# trust-shield Quick Start

concepts:
  score: "0-100 trust score; higher is safer"
  risk_levels: "low (>=85), medium (>=65), high (below)"
  cache: "results are reused for 24h per listing URL"

commands:
  evaluate_by_id: |
    trust-shield evaluate 10644

  evaluate_by_url: |
    trust-shield evaluate "https://www.idealista.com/inmueble/10644/"

  evaluate_with_hints: |
    trust-shield evaluate 10644 --hints known-fields.json

  run_the_api: |
    trust-shield serve --listen :8087

  score_over_http: |
    curl -s localhost:8087/api/v1/evaluate \
      -d '{"listingId": "10644", "listingUrl": "https://www.idealista.com/inmueble/10644/"}'

  cache_stats: |
    trust-shield cache stats

  cache_purge: |
    trust-shield cache purge --older-than 24h

policies:
  default: "2025.2 (balanced weighting)"
  legacy: "2024.1 (scam-language dominated)"
  custom: "trust-shield serve --policy-file my-policy.yaml"

exit_codes:
  0: "success"
  1: "evaluation or server failure"
  2: "bad configuration or arguments"
  3: "no data could be acquired for the listing"
`
